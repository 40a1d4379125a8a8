package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"argus/internal/workspace"
)

func TestPanelRectsFocusedModeHasNoPanels(t *testing.T) {
	l := NewLayoutConfig(120, 40)
	assert.Nil(t, l.PanelRects(workspace.ModeFocused, 0))
	assert.Nil(t, l.PanelRects(workspace.ModeFocused, 2))
}

func TestPanelRectsSplitModeSinglePane(t *testing.T) {
	l := NewLayoutConfig(120, 40)
	rects := l.PanelRects(workspace.ModeSplit, 1)
	assert.Len(t, rects, 1)
	assert.Equal(t, l.WorkspaceHeight(), rects[0].Height)
	assert.Greater(t, rects[0].X, l.ConversationWidth(1))
}

func TestPanelRectsMultiModeGrid(t *testing.T) {
	l := NewLayoutConfig(160, 50)
	rects := l.PanelRects(workspace.ModeMulti, 4)
	assert.Len(t, rects, 4)

	// Two columns, two rows.
	assert.Equal(t, rects[0].Y, rects[1].Y)
	assert.Greater(t, rects[2].Y, rects[0].Y)
	assert.Greater(t, rects[1].X, rects[0].X)
}

func TestPanelRectsCompactCollapsesToOneColumn(t *testing.T) {
	l := NewLayoutConfig(90, 40)
	assert.True(t, l.IsCompact)

	rects := l.PanelRects(workspace.ModeMulti, 3)
	assert.Len(t, rects, 3)
	for _, r := range rects {
		assert.Equal(t, rects[0].X, r.X)
	}
}

func TestWorkspaceHeightNeverNegative(t *testing.T) {
	l := NewLayoutConfig(80, 3)
	assert.Equal(t, 0, l.WorkspaceHeight())
}

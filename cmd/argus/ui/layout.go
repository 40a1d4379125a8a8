// Layout constants and arithmetic for the workspace panel grid.
package ui

import (
	"argus/internal/workspace"
)

// Layout constants for viewport and panel sizing
const (
	// Chrome around the panel area
	HeaderHeight        = 1
	StatusBarHeight     = 1
	SuggestionBarHeight = 1
	InputHeight         = 3

	// Panel borders and spacing
	PanelBorderWidth = 2
	PanelPaddingH    = 1
	PanelGap         = 1

	// Split mode gives the conversation the larger pane
	SplitConversationRatio = 0.55

	// Multi mode grid
	MultiColumns = 2

	// Responsive breakpoints
	MinimumTerminalWidth  = 80
	MinimumTerminalHeight = 24
	CompactModeWidth      = 100
)

// Rect is a panel cell in terminal coordinates.
type Rect struct {
	X, Y, Width, Height int
}

// LayoutConfig provides computed layout dimensions based on terminal size.
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size.
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// WorkspaceHeight is the vertical space left for panels after the fixed
// chrome rows.
func (l LayoutConfig) WorkspaceHeight() int {
	h := l.TerminalHeight - HeaderHeight - StatusBarHeight - SuggestionBarHeight - InputHeight
	if h < 0 {
		return 0
	}
	return h
}

// ConversationWidth is the width of the conversation pane when panels
// are docked beside it.
func (l LayoutConfig) ConversationWidth(docked int) int {
	if docked == 0 {
		return l.TerminalWidth
	}
	return int(float64(l.TerminalWidth) * SplitConversationRatio)
}

// PanelRects computes the docked panel cells for a layout mode. In
// focused mode the conversation owns the whole area and no rects are
// returned. In split mode the single panel takes the right pane. In
// multi mode panels stack in a grid on the right pane.
func (l LayoutConfig) PanelRects(mode workspace.LayoutMode, docked int) []Rect {
	if docked == 0 || mode == workspace.ModeFocused {
		return nil
	}

	paneX := l.ConversationWidth(docked) + PanelGap
	paneW := l.TerminalWidth - paneX
	paneH := l.WorkspaceHeight()
	if paneW <= 0 || paneH <= 0 {
		return nil
	}

	if mode == workspace.ModeSplit || docked == 1 {
		return []Rect{{X: paneX, Y: HeaderHeight, Width: paneW, Height: paneH}}
	}

	// Multi mode: two columns, rows added as needed.
	cols := MultiColumns
	if l.IsCompact || docked == 1 {
		cols = 1
	}
	rows := (docked + cols - 1) / cols
	cellW := paneW / cols
	cellH := paneH / rows

	rects := make([]Rect, 0, docked)
	for i := 0; i < docked; i++ {
		col := i % cols
		row := i / cols
		rects = append(rects, Rect{
			X:      paneX + col*cellW,
			Y:      HeaderHeight + row*cellH,
			Width:  cellW,
			Height: cellH,
		})
	}
	return rects
}

// PanelContentWidth returns the content width inside a bordered panel.
func PanelContentWidth(panelWidth int) int {
	return panelWidth - PanelBorderWidth - (PanelPaddingH * 2)
}

// PanelContentHeight returns the content height inside a bordered panel.
func PanelContentHeight(panelHeight int) int {
	return panelHeight - PanelBorderWidth
}

package orchestrator

import (
	"testing"

	"argus/internal/floating"
	"argus/internal/stream"
	"argus/internal/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Full pipeline: tool result -> docked panel -> pop out -> maximize ->
// restore, across the orchestrator, the layout engine, and the
// positioner.
func TestEndToEndPanelLifecycle(t *testing.T) {
	engine := workspace.NewEngine()
	vp := floating.FixedViewport{Width: 1920, Height: 1080}
	pos := floating.NewPositioner(floating.NewMemoryStore(), vp)
	o := New(engine)

	// A completed run_tests call arrives in the stream.
	inv := stream.ToolInvocation{
		ToolCallID: "call-1",
		ToolName:   "run_tests",
		State:      stream.StateResult,
		Args:       map[string]any{"suite": "auth"},
		Result:     map[string]any{"passed": 12, "failed": 0},
	}
	o.Process([]stream.Message{{
		ID:    "m1",
		Role:  stream.RoleAssistant,
		Parts: []stream.Part{{Type: stream.PartToolInvocation, ToolInvocation: &inv}},
	}})

	docked := engine.DockedPanels()
	require.Len(t, docked, 1)
	panel := docked[0]
	assert.Equal(t, "Test Results - auth", panel.Title)
	assert.Equal(t, workspace.ModeSplit, engine.Mode())
	assert.Equal(t, panel.ID, engine.ActivePanel())

	// Pop it out: the dock empties and the positioner takes over.
	engine.PopOutPanel(panel.ID)
	pos.AddPanel(panel.ID, nil, nil)

	assert.Equal(t, workspace.ModeFocused, engine.Mode())
	st, ok := pos.Panel(panel.ID)
	require.True(t, ok)
	// First floated panel: zero cascade offset, so the base position.
	cascadeBase := st.Position
	assert.Equal(t, floating.Point{X: 100, Y: 100}, cascadeBase)

	// Maximize fills the viewport.
	pos.Maximize(panel.ID)
	st, _ = pos.Panel(panel.ID)
	assert.Equal(t, floating.Point{}, st.Position)
	assert.Equal(t, floating.Size{Width: 1920, Height: 1080}, st.Size)

	// Restore returns exactly to the pre-maximize cascade geometry.
	pos.Restore(panel.ID)
	st, _ = pos.Panel(panel.ID)
	assert.Equal(t, cascadeBase, st.Position)
	assert.Equal(t, floating.Size{Width: floating.DefaultWidth, Height: floating.DefaultHeight}, st.Size)

	// Pop back in: the positioner record is destroyed, the dock refills.
	engine.PopInPanel(panel.ID)
	pos.RemovePanel(panel.ID)
	assert.Equal(t, workspace.ModeSplit, engine.Mode())
	assert.Equal(t, panel.ID, engine.ActivePanel())
	assert.Equal(t, 0, pos.Count())
}

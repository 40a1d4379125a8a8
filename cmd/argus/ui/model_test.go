package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/internal/config"
	"argus/internal/floating"
	"argus/internal/stream"
	"argus/internal/suggest"
	"argus/internal/workspace"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(config.Default(), floating.NewMemoryStore(), nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func toolResultMsg(id, tool string, args map[string]any) stream.Message {
	// The orchestrator treats nil args as malformed and skips the call.
	if args == nil {
		args = map[string]any{}
	}
	return stream.Message{
		ID:   "msg-" + id,
		Role: stream.RoleAssistant,
		Parts: []stream.Part{
			{Type: stream.PartToolInvocation, ToolInvocation: &stream.ToolInvocation{
				ToolCallID: id,
				ToolName:   tool,
				State:      stream.StateResult,
				Args:       args,
				Result:     map[string]any{"ok": true},
			}},
		},
	}
}

func TestToolResultSpawnsPanelAndSwitchesMode(t *testing.T) {
	m := newTestModel(t)

	m = m.ingest(toolResultMsg("tc-1", "run_tests", map[string]any{"suite": "auth"}))

	require.Len(t, m.Engine().DockedPanels(), 1)
	assert.Equal(t, workspace.ModeSplit, m.Engine().Mode())
	p, ok := m.Engine().ActivePanelData()
	require.True(t, ok)
	assert.Equal(t, "Test Results - auth", p.Title)
}

func TestDuplicateToolResultIgnored(t *testing.T) {
	m := newTestModel(t)

	msg := toolResultMsg("tc-1", "run_tests", map[string]any{"suite": "auth"})
	m = m.ingest(msg)
	m = m.ingest(msg)

	assert.Len(t, m.Engine().Panels(), 1)
}

func TestPopOutKeyMovesActivePanelToFloatingLayer(t *testing.T) {
	m := newTestModel(t)
	m = m.ingest(toolResultMsg("tc-1", "run_tests", nil))
	id := m.Engine().ActivePanel()
	require.NotEmpty(t, id)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = updated.(Model)

	assert.Equal(t, workspace.ModeFocused, m.Engine().Mode())
	assert.Len(t, m.Engine().FloatingPanels(), 1)
	_, ok := m.Positioner().Panel(id)
	assert.True(t, ok)

	// Dock it back.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	m = updated.(Model)
	assert.Equal(t, workspace.ModeSplit, m.Engine().Mode())
	assert.Equal(t, 0, m.Positioner().Count())
}

func TestCloseKeyRemovesPanelEverywhere(t *testing.T) {
	m := newTestModel(t)
	m = m.ingest(toolResultMsg("tc-1", "run_tests", nil))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	m = updated.(Model)

	assert.Empty(t, m.Engine().Panels())
	assert.Equal(t, workspace.ModeFocused, m.Engine().Mode())
}

func TestCycleActiveWraps(t *testing.T) {
	m := newTestModel(t)
	m = m.ingest(toolResultMsg("tc-1", "run_tests", nil))
	m = m.ingest(toolResultMsg("tc-2", "coverage_report", nil))

	docked := m.Engine().DockedPanels()
	require.Len(t, docked, 2)
	first := m.Engine().ActivePanel()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	second := m.Engine().ActivePanel()
	assert.NotEqual(t, first, second)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, first, m.Engine().ActivePanel())
}

func TestSuggestionsFollowConversation(t *testing.T) {
	m := newTestModel(t)
	base := m.suggestions
	require.NotEmpty(t, base)
	assert.Equal(t, suggest.ContextEmpty, m.context)

	m = m.ingest(toolResultMsg("tc-1", "run_tests", nil))
	assert.Equal(t, suggest.AfterTest, m.context)
	assert.NotEqual(t, base[0].ID, m.suggestions[0].ID)
	assert.Contains(t, m.statusLine(), "context: afterTest")
}

func TestRenderPanelData(t *testing.T) {
	assert.Equal(t, "(no data)", renderPanelData(nil))
	assert.Equal(t, "raw", renderPanelData("raw"))
	assert.Contains(t, renderPanelData(map[string]any{"passed": 3}), `"passed"`)
}

func TestTruncateLines(t *testing.T) {
	out := truncateLines("a\nb\nc\nd", 2, 80)
	assert.Equal(t, "a\n…", out)

	out = truncateLines("abcdefghij", 5, 6)
	assert.Equal(t, "abcde…", out)
}

package stream

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTranscriptMissingFile(t *testing.T) {
	msgs, err := ReadTranscript(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestDecodeMessagesSkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`{"id":"m1","role":"user","content":"run the auth suite"}`,
		`this line is not json`,
		``,
		`{"id":"m2","role":"assistant","content":"on it","parts":[{"type":"tool-invocation","toolInvocation":{"toolCallId":"tc-1","toolName":"run_tests","state":"result","args":{"suite":"auth"},"result":{"passed":12}}}]}`,
		`{"truncated`,
	}, "\n")

	msgs := DecodeMessages(strings.NewReader(input))
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, RoleUser, msgs[0].Role)

	inv, ok := msgs[1].LastToolInvocation()
	require.True(t, ok)
	assert.Equal(t, "tc-1", inv.ToolCallID)
	assert.Equal(t, "run_tests", inv.ToolName)
	assert.True(t, inv.Completed())
	assert.Equal(t, "auth", inv.Args["suite"])
}

func TestReadTranscriptRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.jsonl")
	content := `{"id":"m1","role":"assistant","content":"hello"}` + "\n" +
		`{"id":"m2","role":"user","content":"hi"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	msgs, err := ReadTranscript(path)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleAssistant, msgs[0].Role)
	assert.Equal(t, "m2", msgs[1].ID)
}

func TestToolInvocationsOrderAndFiltering(t *testing.T) {
	m := Message{
		Role: RoleAssistant,
		Parts: []Part{
			{Type: PartText, Text: "running"},
			{Type: PartToolInvocation, ToolInvocation: &ToolInvocation{ToolCallID: "a", State: StateCall}},
			{Type: PartToolInvocation}, // nil record, skipped
			{Type: PartToolInvocation, ToolInvocation: &ToolInvocation{ToolCallID: "b", State: StateResult}},
		},
	}

	invs := m.ToolInvocations()
	require.Len(t, invs, 2)
	assert.Equal(t, "a", invs[0].ToolCallID)
	assert.Equal(t, "b", invs[1].ToolCallID)

	last, ok := m.LastToolInvocation()
	require.True(t, ok)
	assert.Equal(t, "b", last.ToolCallID)

	_, ok = Message{Content: "plain text"}.LastToolInvocation()
	assert.False(t, ok)
}

func TestCompletedStates(t *testing.T) {
	assert.False(t, ToolInvocation{State: StateCall}.Completed())
	assert.False(t, ToolInvocation{State: StatePartialCall}.Completed())
	assert.True(t, ToolInvocation{State: StateResult}.Completed())
}

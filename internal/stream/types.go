// Package stream defines the inbound conversation stream consumed by the
// workspace: role-tagged messages whose parts carry text fragments and tool
// invocations. The orchestrator and the suggestion engine both operate over
// these shapes; neither ever mutates them.
package stream

import "time"

// Role tags the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// InvocationState tracks a tool invocation through its lifecycle.
// Only invocations that reach StateResult carry a usable payload.
type InvocationState string

const (
	StateCall        InvocationState = "call"
	StatePartialCall InvocationState = "partial-call"
	StateResult      InvocationState = "result"
)

// PartType discriminates message parts.
type PartType string

const (
	PartText           PartType = "text"
	PartToolInvocation PartType = "tool-invocation"
)

// ToolInvocation is a structured record of an assistant calling a named
// capability. Args and Result are opaque to this package.
type ToolInvocation struct {
	ToolCallID string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	State      InvocationState `json:"state"`
	Args       map[string]any  `json:"args,omitempty"`
	Result     any             `json:"result,omitempty"`
}

// Completed reports whether the invocation has a final result.
func (inv ToolInvocation) Completed() bool {
	return inv.State == StateResult
}

// Part is one fragment of a message: either text or a tool invocation.
type Part struct {
	Type           PartType        `json:"type"`
	Text           string          `json:"text,omitempty"`
	ToolInvocation *ToolInvocation `json:"toolInvocation,omitempty"`
}

// Message is a single entry in the conversation stream.
type Message struct {
	ID      string    `json:"id"`
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Parts   []Part    `json:"parts,omitempty"`
	Time    time.Time `json:"time,omitzero"`
}

// ToolInvocations returns the invocations embedded in the message parts,
// in order. Parts with a nil invocation record are skipped.
func (m Message) ToolInvocations() []ToolInvocation {
	var out []ToolInvocation
	for _, p := range m.Parts {
		if p.Type == PartToolInvocation && p.ToolInvocation != nil {
			out = append(out, *p.ToolInvocation)
		}
	}
	return out
}

// LastToolInvocation returns the most recent invocation in the message,
// or false when the message has none.
func (m Message) LastToolInvocation() (ToolInvocation, bool) {
	for i := len(m.Parts) - 1; i >= 0; i-- {
		p := m.Parts[i]
		if p.Type == PartToolInvocation && p.ToolInvocation != nil {
			return *p.ToolInvocation, true
		}
	}
	return ToolInvocation{}, false
}

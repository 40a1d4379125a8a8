// Package orchestrator translates completed assistant tool calls into
// workspace panel spawns, exactly once per tool-call id. It is best-effort
// enrichment: malformed invocation shapes are skipped, unknown tool names
// are ignored, and nothing here may stop a conversation from rendering.
package orchestrator

import (
	"sync"

	"argus/internal/logging"
	"argus/internal/stream"
	"argus/internal/workspace"
)

// Spawner is the slice of the workspace engine the orchestrator drives.
type Spawner interface {
	SpawnPanel(t workspace.PanelType, title string, data any) string
}

// Handler is a caller-registered hook for a tool name. A registered
// handler fully bypasses the built-in binding table for that tool.
type Handler func(inv stream.ToolInvocation)

// Orchestrator watches the conversation stream and spawns panels. The
// processed set is in-memory only; it resets with the session.
type Orchestrator struct {
	mu        sync.Mutex
	spawner   Spawner
	processed map[string]struct{}
	handlers  map[string]Handler
}

// New creates an orchestrator driving the given spawner.
func New(spawner Spawner) *Orchestrator {
	return &Orchestrator{
		spawner:   spawner,
		processed: make(map[string]struct{}),
		handlers:  make(map[string]Handler),
	}
}

// RegisterHandler installs a custom handler for a tool name, replacing
// the built-in binding for that name entirely.
func (o *Orchestrator) RegisterHandler(toolName string, h Handler) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.handlers[toolName] = h
}

// Process scans the conversation for completed assistant tool calls and
// spawns panels for recognized ones. The host calls this whenever the
// message list changes; already-processed invocations are skipped, so
// re-feeding the full list is cheap and safe.
func (o *Orchestrator) Process(msgs []stream.Message) {
	for _, m := range msgs {
		if m.Role != stream.RoleAssistant {
			continue
		}
		for _, inv := range m.ToolInvocations() {
			o.ProcessToolCall(inv)
		}
	}
}

// ProcessToolInvocations is the manual entry point mirroring Process for
// callers that already hold invocation records. It shares the same dedup
// set, so a manually processed call is never reprocessed by Process.
func (o *Orchestrator) ProcessToolInvocations(invs []stream.ToolInvocation) {
	for _, inv := range invs {
		o.ProcessToolCall(inv)
	}
}

// ProcessToolCall handles a single invocation. It reports whether the
// call resulted in a spawn or handler dispatch this time; pending,
// malformed, duplicate, and unrecognized invocations all return false.
func (o *Orchestrator) ProcessToolCall(inv stream.ToolInvocation) bool {
	if !inv.Completed() {
		return false
	}
	// Malformed shapes are tolerated silently. The backend's tool-call
	// format evolves; dropping a panel beats crashing the workspace.
	if inv.ToolCallID == "" || inv.ToolName == "" || inv.Args == nil {
		logging.OrchestratorDebug("skipping malformed invocation (id=%q name=%q)", inv.ToolCallID, inv.ToolName)
		return false
	}

	o.mu.Lock()
	if _, done := o.processed[inv.ToolCallID]; done {
		o.mu.Unlock()
		return false
	}
	handler, hasHandler := o.handlers[inv.ToolName]
	bind, hasBinding := builtinBindings[inv.ToolName]
	if hasHandler || hasBinding {
		o.processed[inv.ToolCallID] = struct{}{}
	}
	o.mu.Unlock()

	switch {
	case hasHandler:
		handler(inv)
		logging.OrchestratorDebug("custom handler consumed %s (%s)", inv.ToolName, inv.ToolCallID)
		return true

	case hasBinding:
		title := bind.title(inv.Args)
		data := any(Payload{Result: inv.Result, Args: inv.Args})
		if bind.transform != nil {
			data = bind.transform(inv.Result, inv.Args)
		}
		id := o.spawner.SpawnPanel(bind.panelType, title, data)
		logging.Orchestrator("spawned %s panel %s for tool %s (%s)", bind.panelType, id, inv.ToolName, inv.ToolCallID)
		return true
	}

	return false
}

// Processed reports whether a tool-call id has already been consumed.
func (o *Orchestrator) Processed(toolCallID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, done := o.processed[toolCallID]
	return done
}

// ProcessedCount returns the size of the dedup set.
func (o *Orchestrator) ProcessedCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.processed)
}

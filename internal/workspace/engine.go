package workspace

import (
	"sync"
	"time"

	"argus/internal/logging"
)

// Engine is the single source of truth for the panel set. It serializes
// mutations through the reducer under a mutex so host goroutines (the TUI
// loop, the transcript watcher) can share it.
type Engine struct {
	mu    sync.RWMutex
	state State
}

// NewEngine creates an engine in the empty initial state.
func NewEngine() *Engine {
	return &Engine{state: NewState()}
}

// SpawnPanel creates a docked, unpinned panel, makes it active, and
// returns its id. Spawning always succeeds; duplicate types are allowed
// (dedup of tool results is the orchestrator's job).
func (e *Engine) SpawnPanel(t PanelType, title string, data any) string {
	p := Panel{
		ID:        newPanelID(),
		Type:      t,
		Title:     title,
		Data:      data,
		CreatedAt: time.Now(),
	}
	e.mu.Lock()
	e.state = Apply(e.state, Spawn{Panel: p})
	mode := e.state.Mode
	e.mu.Unlock()

	logging.Workspace("spawned %s panel %s (%q), mode=%s", t, p.ID, title, mode)
	return p.ID
}

// ClosePanel removes a panel. Closing an unknown id is a no-op.
func (e *Engine) ClosePanel(id string) {
	e.dispatch(Close{ID: id})
}

// PinPanel marks a panel as pinned.
func (e *Engine) PinPanel(id string) {
	e.dispatch(SetPinned{ID: id, Pinned: true})
}

// UnpinPanel clears the pin flag.
func (e *Engine) UnpinPanel(id string) {
	e.dispatch(SetPinned{ID: id, Pinned: false})
}

// PopOutPanel floats a docked panel. The panel stops counting toward the
// layout mode and, if it was active, focus moves to the first remaining
// docked panel.
func (e *Engine) PopOutPanel(id string) {
	e.dispatch(PopOut{ID: id})
}

// PopInPanel docks a floating panel and focuses it.
func (e *Engine) PopInPanel(id string) {
	e.dispatch(PopIn{ID: id})
}

// SetActivePanel assigns focus directly. Pass "" to clear.
func (e *Engine) SetActivePanel(id string) {
	e.dispatch(SetActive{ID: id})
}

// SetMode forces the layout mode until the next recompute.
func (e *Engine) SetMode(m LayoutMode) {
	e.dispatch(SetMode{Mode: m})
}

// Reset returns to the empty initial state.
func (e *Engine) Reset() {
	e.dispatch(Reset{})
	logging.Workspace("workspace reset")
}

func (e *Engine) dispatch(a Action) {
	e.mu.Lock()
	e.state = Apply(e.state, a)
	e.mu.Unlock()
}

// State returns a copy of the full layout state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return clone(e.state)
}

// Mode returns the current layout mode.
func (e *Engine) Mode() LayoutMode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Mode
}

// ActivePanel returns the active panel id, or "".
func (e *Engine) ActivePanel() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Active
}

// ActivePanelData returns the active panel record, if any.
func (e *Engine) ActivePanelData() (Panel, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	idx := indexOf(e.state.Panels, e.state.Active)
	if idx < 0 {
		return Panel{}, false
	}
	return e.state.Panels[idx], true
}

// Panel looks up a panel by id.
func (e *Engine) Panel(id string) (Panel, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	idx := indexOf(e.state.Panels, id)
	if idx < 0 {
		return Panel{}, false
	}
	return e.state.Panels[idx], true
}

// Panels returns all panels, docked and floating, in spawn order.
func (e *Engine) Panels() []Panel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Panel, len(e.state.Panels))
	copy(out, e.state.Panels)
	return out
}

// DockedPanels returns the docked subset in spawn order.
func (e *Engine) DockedPanels() []Panel {
	return e.filtered(false)
}

// FloatingPanels returns the floating subset in spawn order.
func (e *Engine) FloatingPanels() []Panel {
	return e.filtered(true)
}

func (e *Engine) filtered(floating bool) []Panel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []Panel
	for _, p := range e.state.Panels {
		if p.IsFloating == floating {
			out = append(out, p)
		}
	}
	return out
}

// HasPanelOfType reports whether any panel (docked or floating) has the
// given type.
func (e *Engine) HasPanelOfType(t PanelType) bool {
	_, ok := e.PanelByType(t)
	return ok
}

// PanelByType returns the first panel of the given type, scanning the
// full set in spawn order.
func (e *Engine) PanelByType(t PanelType) (Panel, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, p := range e.state.Panels {
		if p.Type == t {
			return p, true
		}
	}
	return Panel{}, false
}

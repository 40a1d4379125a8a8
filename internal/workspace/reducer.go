package workspace

// State is the full layout state. It is treated as a value: Apply never
// mutates its input, it returns a fresh State with a copied panel slice.
type State struct {
	Panels []Panel
	Active string // Panel id, or "" when nothing is active
	Mode   LayoutMode
}

// NewState returns the empty initial state.
func NewState() State {
	return State{Mode: ModeFocused}
}

// DockedCount returns the number of docked (non-floating) panels.
func (s State) DockedCount() int {
	n := 0
	for _, p := range s.Panels {
		if !p.IsFloating {
			n++
		}
	}
	return n
}

// firstDocked returns the id of the first docked panel, or "".
func (s State) firstDocked() string {
	for _, p := range s.Panels {
		if !p.IsFloating {
			return p.ID
		}
	}
	return ""
}

// Action is the tagged union of layout mutations.
type Action interface{ isAction() }

// Spawn appends a fresh docked panel and makes it active.
type Spawn struct{ Panel Panel }

// Close removes a panel. Unknown ids are a no-op.
type Close struct{ ID string }

// SetPinned flips the pin flag. The flag is carried for future auto-close
// policies; no consumer currently changes behavior based on it.
type SetPinned struct {
	ID     string
	Pinned bool
}

// PopOut hands a panel to the floating layer.
type PopOut struct{ ID string }

// PopIn returns a floating panel to the dock and focuses it.
type PopIn struct{ ID string }

// SetActive assigns the active panel directly. The id is not validated;
// callers pass a known id or "".
type SetActive struct{ ID string }

// SetMode forces the layout mode. The next count-affecting mutation
// recomputes and wins.
type SetMode struct{ Mode LayoutMode }

// Reset returns to the empty initial state.
type Reset struct{}

func (Spawn) isAction()     {}
func (Close) isAction()     {}
func (SetPinned) isAction() {}
func (PopOut) isAction()    {}
func (PopIn) isAction()     {}
func (SetActive) isAction() {}
func (SetMode) isAction()   {}
func (Reset) isAction()     {}

// Apply is the pure transition function. Every action is total: targets
// that do not exist degrade to no-ops rather than errors, so the workspace
// keeps rendering no matter what the host feeds it.
func Apply(s State, action Action) State {
	switch a := action.(type) {
	case Spawn:
		next := clone(s)
		next.Panels = append(next.Panels, a.Panel)
		next.Active = a.Panel.ID
		next.Mode = ModeFor(next.DockedCount())
		return next

	case Close:
		idx := indexOf(s.Panels, a.ID)
		if idx < 0 {
			return s
		}
		next := clone(s)
		next.Panels = append(next.Panels[:idx], next.Panels[idx+1:]...)
		if next.Active == a.ID {
			next.Active = next.firstDocked()
		}
		next.Mode = ModeFor(next.DockedCount())
		return next

	case SetPinned:
		idx := indexOf(s.Panels, a.ID)
		if idx < 0 {
			return s
		}
		next := clone(s)
		next.Panels[idx].IsPinned = a.Pinned
		return next

	case PopOut:
		idx := indexOf(s.Panels, a.ID)
		if idx < 0 || s.Panels[idx].IsFloating {
			return s
		}
		next := clone(s)
		next.Panels[idx].IsFloating = true
		if next.Active == a.ID {
			next.Active = next.firstDocked()
		}
		next.Mode = ModeFor(next.DockedCount())
		return next

	case PopIn:
		idx := indexOf(s.Panels, a.ID)
		if idx < 0 || !s.Panels[idx].IsFloating {
			return s
		}
		next := clone(s)
		next.Panels[idx].IsFloating = false
		next.Active = a.ID
		next.Mode = ModeFor(next.DockedCount())
		return next

	case SetActive:
		next := clone(s)
		next.Active = a.ID
		return next

	case SetMode:
		next := clone(s)
		next.Mode = a.Mode
		return next

	case Reset:
		return NewState()
	}
	return s
}

func clone(s State) State {
	out := s
	out.Panels = make([]Panel, len(s.Panels))
	copy(out.Panels, s.Panels)
	return out
}

func indexOf(panels []Panel, id string) int {
	for i, p := range panels {
		if p.ID == id {
			return i
		}
	}
	return -1
}

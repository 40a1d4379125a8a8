// Package floating tracks geometry and z-order for panels popped out of
// the workspace dock. It knows nothing about what renders inside a panel;
// it only does 2D bookkeeping: cascade placement for new panels, size
// floors, minimize/maximize with exact restore, and a monotonically
// increasing z-index. State is snapshotted to an injected Store on every
// change and reloaded (validate-or-discard) on construction.
package floating

import (
	"encoding/json"
	"sort"
	"sync"

	"argus/internal/logging"
)

// Geometry defaults. Units are pixels for a graphical host and cells for
// the TUI; the positioner does not care which.
const (
	DefaultWidth  = 600
	DefaultHeight = 400
	MinWidth      = 300
	MinHeight     = 200

	baseOffsetX    = 100
	baseOffsetY    = 100
	cascadeStep    = 30
	viewportMargin = 20
)

// StorageKey is the fixed store key for the persisted snapshot.
const StorageKey = "argus.floating-panels"

// Point is a top-left position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a panel footprint.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PanelState is the tracked geometry for one floating panel.
type PanelState struct {
	Position    Point  `json:"position"`
	Size        Size   `json:"size"`
	ZIndex      int    `json:"zIndex"`
	IsMinimized bool   `json:"isMinimized"`
	IsMaximized bool   `json:"isMaximized"`
	PrevPos     *Point `json:"previousPosition,omitempty"`
	PrevSize    *Size  `json:"previousSize,omitempty"`
}

// Viewport supplies window geometry on demand. Geometry is a snapshot
// taken when a panel is created or maximized, not continuously tracked.
type Viewport interface {
	Size() (width, height int)
}

// FixedViewport is a Viewport with constant dimensions, for tests and
// headless hosts.
type FixedViewport struct {
	Width  int
	Height int
}

func (v FixedViewport) Size() (int, int) { return v.Width, v.Height }

// snapshot is the persisted form. MaxZIndex is a pointer so a snapshot
// missing the field fails validation instead of loading as zero.
type snapshot struct {
	Panels    map[string]PanelState `json:"panels"`
	MaxZIndex *int                  `json:"maxZIndex"`
}

// Positioner owns all floating-panel geometry.
type Positioner struct {
	mu       sync.RWMutex
	panels   map[string]PanelState
	maxZ     int
	store    Store
	viewport Viewport
	key      string
}

// NewPositioner creates a positioner backed by the given store and
// viewport provider. A persisted snapshot is loaded if it validates;
// anything missing, corrupt, or mis-shaped silently yields the empty
// default.
func NewPositioner(store Store, viewport Viewport) *Positioner {
	p := &Positioner{
		panels:   make(map[string]PanelState),
		store:    store,
		viewport: viewport,
		key:      StorageKey,
	}
	p.load()
	return p
}

func (p *Positioner) load() {
	raw, ok := p.store.Get(p.key)
	if !ok {
		return
	}
	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		logging.FloatingDebug("discarding unparseable snapshot: %v", err)
		return
	}
	if snap.Panels == nil || snap.MaxZIndex == nil {
		logging.FloatingDebug("discarding structurally invalid snapshot")
		return
	}
	p.panels = snap.Panels
	p.maxZ = *snap.MaxZIndex
	logging.Floating("restored %d floating panels, maxZ=%d", len(p.panels), p.maxZ)
}

// persist writes the whole snapshot. Failures are swallowed; in-memory
// state stays authoritative.
func (p *Positioner) persist() {
	maxZ := p.maxZ
	data, err := json.Marshal(snapshot{Panels: p.panels, MaxZIndex: &maxZ})
	if err != nil {
		logging.FloatingDebug("snapshot marshal failed: %v", err)
		return
	}
	if err := p.store.Set(p.key, string(data)); err != nil {
		logging.FloatingDebug("snapshot write failed: %v", err)
	}
}

// initialPosition computes cascade placement for the next panel: a fixed
// base offset stepped by the current panel count, clamped so the top-left
// keeps the panel's footprint plus a margin inside the viewport.
func (p *Positioner) initialPosition(size Size) Point {
	offset := cascadeStep * len(p.panels)
	x := baseOffsetX + offset
	y := baseOffsetY + offset

	vw, vh := p.viewport.Size()
	if maxX := vw - size.Width - viewportMargin; x > maxX {
		x = maxX
	}
	if maxY := vh - size.Height - viewportMargin; y > maxY {
		y = maxY
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return Point{X: x, Y: y}
}

// AddPanel starts tracking a panel. Already-tracked ids are a no-op, so
// creation is exactly-once. Nil position/size fall back to cascade
// placement and the default footprint.
func (p *Positioner) AddPanel(id string, pos *Point, size *Size) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.panels[id]; exists {
		return
	}

	sz := Size{Width: DefaultWidth, Height: DefaultHeight}
	if size != nil {
		sz = clampSize(*size)
	}
	pt := p.initialPosition(sz)
	if pos != nil {
		pt = *pos
	}

	p.maxZ++
	p.panels[id] = PanelState{Position: pt, Size: sz, ZIndex: p.maxZ}
	logging.FloatingDebug("tracking panel %s at (%d,%d) z=%d", id, pt.X, pt.Y, p.maxZ)
	p.persist()
}

// RemovePanel stops tracking a panel. Other panels' z-indexes are left
// alone; there is no compaction.
func (p *Positioner) RemovePanel(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.panels[id]; !exists {
		return
	}
	delete(p.panels, id)
	p.persist()
}

// UpdatePosition moves a panel. Unknown ids are a no-op.
func (p *Positioner) UpdatePosition(id string, pos Point) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, exists := p.panels[id]
	if !exists {
		return
	}
	st.Position = pos
	p.panels[id] = st
	p.persist()
}

// UpdateSize resizes a panel, clamped to the minimum footprint. Panels
// may grow without bound but never shrink below the floor.
func (p *Positioner) UpdateSize(id string, size Size) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, exists := p.panels[id]
	if !exists {
		return
	}
	st.Size = clampSize(size)
	p.panels[id] = st
	p.persist()
}

// BringToFront raises a panel to the top of the stack. Raising the
// already-topmost panel does not burn a z-index.
func (p *Positioner) BringToFront(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, exists := p.panels[id]
	if !exists || st.ZIndex == p.maxZ {
		return
	}
	p.maxZ++
	st.ZIndex = p.maxZ
	p.panels[id] = st
	p.persist()
}

// Minimize collapses a panel, saving its geometry for Restore. Minimize
// and maximize are mutually exclusive.
func (p *Positioner) Minimize(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, exists := p.panels[id]
	if !exists || st.IsMinimized {
		return
	}
	pos, sz := st.Position, st.Size
	st.PrevPos = &pos
	st.PrevSize = &sz
	st.IsMinimized = true
	st.IsMaximized = false
	p.panels[id] = st
	p.persist()
}

// Maximize fills the viewport, saving the prior geometry for Restore.
func (p *Positioner) Maximize(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, exists := p.panels[id]
	if !exists || st.IsMaximized {
		return
	}
	pos, sz := st.Position, st.Size
	st.PrevPos = &pos
	st.PrevSize = &sz

	vw, vh := p.viewport.Size()
	st.Position = Point{}
	st.Size = Size{Width: vw, Height: vh}
	st.IsMaximized = true
	st.IsMinimized = false
	p.panels[id] = st
	p.persist()
}

// Restore returns a minimized or maximized panel to its saved geometry
// exactly. A panel in neither state is a no-op.
func (p *Positioner) Restore(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, exists := p.panels[id]
	if !exists || (!st.IsMinimized && !st.IsMaximized) {
		return
	}
	if st.PrevPos != nil {
		st.Position = *st.PrevPos
	}
	if st.PrevSize != nil {
		st.Size = *st.PrevSize
	}
	st.PrevPos = nil
	st.PrevSize = nil
	st.IsMinimized = false
	st.IsMaximized = false
	p.panels[id] = st
	p.persist()
}

// Panel returns the tracked state for an id.
func (p *Positioner) Panel(id string) (PanelState, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st, ok := p.panels[id]
	return st, ok
}

// Count returns the number of tracked panels.
func (p *Positioner) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.panels)
}

// MaxZIndex returns the running z-index high-water mark.
func (p *Positioner) MaxZIndex() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.maxZ
}

// Entry pairs a panel id with its state for ordered views.
type Entry struct {
	ID    string
	State PanelState
}

// PanelsByZOrder returns tracked panels sorted bottom to top.
func (p *Positioner) PanelsByZOrder() []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Entry, 0, len(p.panels))
	for id, st := range p.panels {
		out = append(out, Entry{ID: id, State: st})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State.ZIndex < out[j].State.ZIndex })
	return out
}

func clampSize(s Size) Size {
	if s.Width < MinWidth {
		s.Width = MinWidth
	}
	if s.Height < MinHeight {
		s.Height = MinHeight
	}
	return s
}

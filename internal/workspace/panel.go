// Package workspace implements the adaptive layout state machine for the
// Argus chat workspace: which panels exist, which are docked or floating,
// which one is active, and the coarse layout mode derived from the docked
// set. The state machine is a pure reducer (State + Action -> State) wrapped
// by a mutex-guarded Engine for host code.
package workspace

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// PanelType enumerates the panel kinds the workspace can host. The set is
// closed: the orchestrator maps tool names onto these.
type PanelType string

const (
	PanelTestResults   PanelType = "test-results"
	PanelQualityReport PanelType = "quality-report"
	PanelVisualDiff    PanelType = "visual-diff"
	PanelCodeViewer    PanelType = "code-viewer"
	PanelPipeline      PanelType = "pipeline"
	PanelLogs          PanelType = "logs"
	PanelCoverage      PanelType = "coverage"
	PanelAnalytics     PanelType = "analytics"
)

// LayoutMode is the coarse arrangement of the docked workspace. It is a
// pure function of the docked panel count and is recomputed after every
// mutation that can change that count.
type LayoutMode string

const (
	ModeFocused LayoutMode = "focused" // No docked panels: chat fills the workspace
	ModeSplit   LayoutMode = "split"   // One docked panel beside the chat
	ModeMulti   LayoutMode = "multi"   // Two or more docked panels
)

// ModeFor returns the layout mode for a docked panel count.
func ModeFor(docked int) LayoutMode {
	switch {
	case docked == 0:
		return ModeFocused
	case docked == 1:
		return ModeSplit
	default:
		return ModeMulti
	}
}

// Panel is a single workspace panel. Type, Data and CreatedAt never change
// after spawn; Title, IsPinned and IsFloating may.
type Panel struct {
	ID         string
	Type       PanelType
	Title      string
	Data       any // Opaque tool payload; never inspected here
	IsPinned   bool
	IsFloating bool
	CreatedAt  time.Time
}

// newPanelID generates a session-unique panel id. Timestamp plus a random
// base-36 suffix; there is no cryptographic requirement.
func newPanelID() string {
	return fmt.Sprintf("panel-%d-%s", time.Now().UnixMilli(), strconv.FormatInt(rand.Int63n(1<<31), 36))
}

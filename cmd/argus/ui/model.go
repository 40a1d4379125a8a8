package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"argus/internal/config"
	"argus/internal/floating"
	"argus/internal/logging"
	"argus/internal/orchestrator"
	"argus/internal/stream"
	"argus/internal/suggest"
	"argus/internal/workspace"
)

// The floating positioner works on a fixed virtual canvas; the view
// projects panel geometry onto the terminal grid proportionally.
const (
	canvasWidth  = 1920
	canvasHeight = 1080
)

// streamMsg delivers one transcript message to the update loop.
type streamMsg stream.Message

// streamClosedMsg signals the transcript watcher has stopped.
type streamClosedMsg struct{}

// keyMap defines the workspace key bindings.
type keyMap struct {
	Quit        key.Binding
	CycleActive key.Binding
	ClosePanel  key.Binding
	PopOut      key.Binding
	PopIn       key.Binding
	TogglePin   key.Binding
	NextSuggest key.Binding
	PrevSuggest key.Binding
	UseSuggest  key.Binding
	Submit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		CycleActive: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		ClosePanel:  key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close panel")),
		PopOut:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "pop out")),
		PopIn:       key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "dock back")),
		TogglePin:   key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "pin")),
		NextSuggest: key.NewBinding(key.WithKeys("ctrl+right"), key.WithHelp("ctrl+→", "next suggestion")),
		PrevSuggest: key.NewBinding(key.WithKeys("ctrl+left"), key.WithHelp("ctrl+←", "prev suggestion")),
		UseSuggest:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "use suggestion")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	}
}

// Model is the bubbletea model for the Argus workspace.
type Model struct {
	styles Styles
	layout LayoutConfig
	keys   keyMap

	cfg       *config.Config
	sessionID string

	engine     *workspace.Engine
	positioner *floating.Positioner
	orch       *orchestrator.Orchestrator

	messages []stream.Message
	msgCh    <-chan stream.Message
	streamUp bool

	context     suggest.Context
	suggestions []suggest.Suggestion
	suggestIdx  int

	conversation viewport.Model
	input        textarea.Model
	spin         spinner.Model

	ready bool
	err   error
}

// New assembles the workspace model. The message channel feeds
// transcript updates; a nil channel runs the workspace without live
// ingestion.
func New(cfg *config.Config, store floating.Store, msgCh <-chan stream.Message) Model {
	engine := workspace.NewEngine()
	positioner := floating.NewPositioner(store, floating.FixedViewport{Width: canvasWidth, Height: canvasHeight})
	orch := orchestrator.New(engine)

	input := textarea.New()
	input.Placeholder = "Ask about your tests..."
	input.SetHeight(1)
	input.ShowLineNumbers = false
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	sessionID := uuid.NewString()
	logging.Session("workspace session %s started", sessionID)

	ctx, suggestions := suggest.Suggest(nil, nil, cfg.Suggestions.Max)

	m := Model{
		styles:      DefaultStyles(),
		keys:        defaultKeyMap(),
		cfg:         cfg,
		sessionID:   sessionID,
		engine:      engine,
		positioner:  positioner,
		orch:        orch,
		msgCh:       msgCh,
		streamUp:    msgCh != nil,
		context:     ctx,
		suggestions: suggestions,
		input:       input,
		spin:        sp,
	}
	m.spin.Style = m.styles.Spinner
	return m
}

// Engine exposes the layout engine, mostly for tests.
func (m Model) Engine() *workspace.Engine { return m.engine }

// Positioner exposes the floating panel positioner, mostly for tests.
func (m Model) Positioner() *floating.Positioner { return m.positioner }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.spin.Tick}
	if m.msgCh != nil {
		cmds = append(cmds, waitForMessage(m.msgCh))
	}
	return tea.Batch(cmds...)
}

// waitForMessage blocks on the transcript channel and converts the next
// message into a tea.Msg.
func waitForMessage(ch <-chan stream.Message) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return streamMsg(msg)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayoutConfig(msg.Width, msg.Height)
		m.resizeConversation()
		m.input.SetWidth(msg.Width - 4)
		m.ready = true
		logging.UI("resized to %dx%d", msg.Width, msg.Height)

	case streamMsg:
		m = m.ingest(stream.Message(msg))
		cmds = append(cmds, waitForMessage(m.msgCh))

	case streamClosedMsg:
		m.streamUp = false
		logging.UI("transcript stream ended")

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.CycleActive):
			m.cycleActive()

		case key.Matches(msg, m.keys.ClosePanel):
			if id := m.engine.ActivePanel(); id != "" {
				m.positioner.RemovePanel(id)
				m.engine.ClosePanel(id)
			}

		case key.Matches(msg, m.keys.PopOut):
			if id := m.engine.ActivePanel(); id != "" {
				m.engine.PopOutPanel(id)
				m.positioner.AddPanel(id, nil, nil)
			}

		case key.Matches(msg, m.keys.PopIn):
			if fl := m.engine.FloatingPanels(); len(fl) > 0 {
				top := m.topFloating(fl)
				m.positioner.RemovePanel(top)
				m.engine.PopInPanel(top)
			}

		case key.Matches(msg, m.keys.TogglePin):
			if p, ok := m.engine.ActivePanelData(); ok {
				if p.IsPinned {
					m.engine.UnpinPanel(p.ID)
				} else {
					m.engine.PinPanel(p.ID)
				}
			}

		case key.Matches(msg, m.keys.NextSuggest):
			if n := len(m.suggestions); n > 0 {
				m.suggestIdx = (m.suggestIdx + 1) % n
			}

		case key.Matches(msg, m.keys.PrevSuggest):
			if n := len(m.suggestions); n > 0 {
				m.suggestIdx = (m.suggestIdx - 1 + n) % n
			}

		case key.Matches(msg, m.keys.UseSuggest):
			if m.suggestIdx < len(m.suggestions) {
				m.input.SetValue(m.suggestions[m.suggestIdx].Prompt)
			}

		case key.Matches(msg, m.keys.Submit):
			if v := m.input.Value(); v != "" {
				m = m.ingest(stream.Message{
					ID:      uuid.NewString(),
					Role:    stream.RoleUser,
					Content: v,
				})
				m.input.Reset()
			}

		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// ingest appends a message, runs the orchestrator over it, and
// recomputes the suggestion bar.
func (m Model) ingest(msg stream.Message) Model {
	m.messages = append(m.messages, msg)
	m.orch.Process([]stream.Message{msg})
	m.context, m.suggestions = suggest.Suggest(m.messages, nil, m.cfg.Suggestions.Max)
	if m.suggestIdx >= len(m.suggestions) {
		m.suggestIdx = 0
	}
	m.refreshConversation()
	return m
}

// cycleActive moves focus to the next docked panel, wrapping.
func (m *Model) cycleActive() {
	docked := m.engine.DockedPanels()
	if len(docked) == 0 {
		return
	}
	active := m.engine.ActivePanel()
	next := 0
	for i, p := range docked {
		if p.ID == active {
			next = (i + 1) % len(docked)
			break
		}
	}
	m.engine.SetActivePanel(docked[next].ID)
}

// topFloating returns the id of the highest floating panel, falling
// back to the first when the positioner has no record of any.
func (m Model) topFloating(panels []workspace.Panel) string {
	top := panels[0].ID
	best := -1
	for _, p := range panels {
		if st, ok := m.positioner.Panel(p.ID); ok && st.ZIndex > best {
			best = st.ZIndex
			top = p.ID
		}
	}
	return top
}

func (m *Model) resizeConversation() {
	w := m.layout.ConversationWidth(m.engine.State().DockedCount()) - 2
	h := m.layout.WorkspaceHeight()
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if m.conversation.Width == 0 {
		m.conversation = viewport.New(w, h)
	} else {
		m.conversation.Width = w
		m.conversation.Height = h
	}
	m.refreshConversation()
}

func (m Model) statusLine() string {
	st := m.engine.State()
	feed := "live"
	if !m.streamUp {
		feed = "idle"
	}
	return fmt.Sprintf("session %s  |  mode: %s  |  context: %s  |  panels: %d docked, %d floating  |  stream: %s",
		m.sessionID[:8], st.Mode, m.context, st.DockedCount(), len(m.engine.FloatingPanels()), feed)
}

package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"argus/internal/floating"
	"argus/internal/stream"
	"argus/internal/workspace"
)

func (m Model) View() string {
	if !m.ready {
		return m.spin.View() + " starting workspace..."
	}
	if m.layout.TerminalWidth < MinimumTerminalWidth || m.layout.TerminalHeight < MinimumTerminalHeight {
		return m.styles.Warning.Render(
			fmt.Sprintf("Terminal too small: need at least %dx%d", MinimumTerminalWidth, MinimumTerminalHeight))
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewWorkspace())
	b.WriteString("\n")
	b.WriteString(m.viewSuggestions())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.StatusBar.Render(m.statusLine()))
	return b.String()
}

func (m Model) viewHeader() string {
	title := m.styles.Header.Render(" argus ")
	sub := m.styles.Subtitle.Render(" adaptive test workspace")
	return lipgloss.JoinHorizontal(lipgloss.Center, title, sub)
}

// viewWorkspace lays out the conversation pane and the docked panel
// grid side by side, with the floating stack overlaid beneath.
func (m Model) viewWorkspace() string {
	st := m.engine.State()
	docked := m.engine.DockedPanels()

	convo := m.styles.Content.Render(m.conversation.View())

	var body string
	rects := m.layout.PanelRects(st.Mode, len(docked))
	if len(rects) == 0 {
		body = convo
	} else {
		cells := make([]string, 0, len(docked))
		for i, p := range docked {
			r := rects[i%len(rects)]
			cells = append(cells, m.renderDockedPanel(p, r))
		}
		var grid string
		if st.Mode == workspace.ModeMulti && len(cells) > MultiColumns {
			rows := make([]string, 0)
			for i := 0; i < len(cells); i += MultiColumns {
				end := i + MultiColumns
				if end > len(cells) {
					end = len(cells)
				}
				rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[i:end]...))
			}
			grid = lipgloss.JoinVertical(lipgloss.Left, rows...)
		} else {
			grid = lipgloss.JoinVertical(lipgloss.Left, cells...)
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, convo, grid)
	}

	if overlay := m.viewFloating(); overlay != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, overlay)
	}
	return body
}

func (m Model) renderDockedPanel(p workspace.Panel, r Rect) string {
	style := m.styles.DockedPanel
	if p.ID == m.engine.ActivePanel() {
		style = m.styles.ActivePanel
	}

	title := m.styles.PanelTitle.Render(p.Title)
	if p.IsPinned {
		title = lipgloss.JoinHorizontal(lipgloss.Center, title, " ", m.styles.PinBadge.Render("pin"))
	}

	w := PanelContentWidth(r.Width)
	h := PanelContentHeight(r.Height) - 1
	content := truncateLines(renderPanelData(p.Data), h, w)

	return style.Width(r.Width - PanelBorderWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// viewFloating renders the floating panel stack in z-order, bottom
// first, projected from the virtual canvas onto the terminal grid.
func (m Model) viewFloating() string {
	entries := m.positioner.PanelsByZOrder()
	if len(entries) == 0 {
		return ""
	}

	boxes := make([]string, 0, len(entries))
	for _, e := range entries {
		p, ok := m.engine.Panel(e.ID)
		if !ok {
			continue
		}
		boxes = append(boxes, m.renderFloatingPanel(p, e.State))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m Model) renderFloatingPanel(p workspace.Panel, st floating.PanelState) string {
	title := m.styles.PanelTitle.Render(p.Title)

	if st.IsMinimized {
		return m.styles.FloatingPanel.Render(title + " " + m.styles.Muted.Render("(minimized)"))
	}

	// Project virtual canvas size onto terminal cells.
	w := st.Size.Width * m.layout.TerminalWidth / canvasWidth
	h := st.Size.Height * m.layout.WorkspaceHeight() / canvasHeight
	if st.IsMaximized {
		w = m.layout.TerminalWidth - PanelBorderWidth
		h = m.layout.WorkspaceHeight() - PanelBorderWidth
	}
	if w < 20 {
		w = 20
	}
	if h < 3 {
		h = 3
	}

	content := truncateLines(renderPanelData(p.Data), h-1, w-2*PanelPaddingH)
	return m.styles.FloatingPanel.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m Model) viewSuggestions() string {
	if len(m.suggestions) == 0 {
		return ""
	}
	chips := make([]string, 0, len(m.suggestions))
	for i, s := range m.suggestions {
		style := m.styles.SuggestionChip
		if i == m.suggestIdx {
			style = m.styles.SuggestionActive
		}
		chips = append(chips, style.Render(s.Icon+" "+s.Text))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, chips...)
}

// refreshConversation re-renders the transcript into the viewport and
// scrolls to the latest message.
func (m *Model) refreshConversation() {
	if m.conversation.Width == 0 {
		return
	}

	var b strings.Builder
	for _, msg := range m.messages {
		switch msg.Role {
		case stream.RoleUser:
			b.WriteString(m.styles.UserMessage.Render("> " + msg.Content))
			b.WriteString("\n\n")
		case stream.RoleAssistant:
			b.WriteString(m.styles.AssistantMessage.Render(m.renderMarkdown(msg.Content)))
			b.WriteString("\n")
			for _, inv := range msg.ToolInvocations() {
				b.WriteString(m.styles.ToolCall.Render(describeInvocation(inv)))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	m.conversation.SetContent(b.String())
	m.conversation.GotoBottom()
}

func (m Model) renderMarkdown(content string) string {
	wrap := m.conversation.Width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

func describeInvocation(inv stream.ToolInvocation) string {
	if inv.Completed() {
		return fmt.Sprintf("⚙ %s done", inv.ToolName)
	}
	return fmt.Sprintf("⚙ %s running...", inv.ToolName)
}

// renderPanelData formats an opaque tool payload for display. Maps and
// slices render as indented JSON; everything else falls back to Sprint.
func renderPanelData(data any) string {
	switch v := data.(type) {
	case nil:
		return "(no data)"
	case string:
		return v
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(out)
	}
}

func truncateLines(s string, maxLines, maxWidth int) string {
	if maxLines < 1 {
		maxLines = 1
	}
	lines := strings.Split(s, "\n")
	if len(lines) > maxLines {
		lines = append(lines[:maxLines-1], "…")
	}
	for i, l := range lines {
		if maxWidth > 3 && len(l) > maxWidth {
			lines[i] = l[:maxWidth-1] + "…"
		}
	}
	return strings.Join(lines, "\n")
}

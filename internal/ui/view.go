package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tarsterm/internal/client"
	"tarsterm/internal/model/chat"
)

func (m Model) View() string {
	if !m.ready {
		return "initializing..."
	}

	header := m.renderHeader()
	chatColumn := m.renderChatColumn()
	sidebar := m.renderSidebar()

	body := lipgloss.JoinHorizontal(lipgloss.Top, chatColumn, sidebar)
	return header + "\n" + body
}

func (m Model) renderHeader() string {
	title := headerStyle.Render("TARS TERMINAL")
	session := ""
	if current, ok := m.deps.Store.CurrentSession(); ok {
		session = headerNoteStyle.Render("session: " + current.Name)
	}
	totalMessages, totalSessions := m.deps.Store.Totals()
	totals := headerNoteStyle.Render(fmt.Sprintf("msgs %d / sessions %d", totalMessages, totalSessions))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, session, totals)
}

func (m Model) renderChatColumn() string {
	parts := []string{chatFrameStyle.Render(m.viewport.View())}

	switch m.mode {
	case modePalette:
		parts = append(parts, "> "+m.entry.View(), m.renderPaletteList())
	case modeRename:
		parts = append(parts, "rename: "+m.entry.View())
	case modeSearch:
		parts = append(parts, "search: "+m.entry.View())
	default:
		parts = append(parts, m.input.View())
	}

	parts = append(parts, m.renderStatusLine())
	if m.note != "" {
		style := noteStyle
		if m.noteErr {
			style = errorNoteStyle
		}
		parts = append(parts, style.Width(m.chatWidth()).Render(m.note))
	}

	return lipgloss.NewStyle().Width(m.chatWidth() + 4).Render(strings.Join(parts, "\n"))
}

func (m Model) renderPaletteList() string {
	const maxRows = 8

	rows := make([]string, 0, maxRows)
	for i, cmd := range m.filtered {
		if i >= maxRows {
			break
		}
		line := cmd.Title + "  " + metaStyle.Render(cmd.Desc)
		if i == m.paletteCursor {
			line = cursorRowStyle.Render(" " + cmd.Title + " ")
			line += "  " + metaStyle.Render(cmd.Desc)
		} else {
			line = " " + line
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		rows = append(rows, dimRowStyle.Render(" no matching commands"))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderStatusLine() string {
	conn := connLabel(m.deps.Streamer.State())
	status := string(m.deps.Store.Status())
	return statusStyle.Render(fmt.Sprintf("%s | %s | ^K palette  ^H history  ^S sliders  ^P poke  ^C quit", conn, status))
}

func connLabel(state client.ConnState) string {
	switch state {
	case client.StateConnected:
		return "online"
	case client.StateConnecting:
		return "dialing"
	default:
		return "offline"
	}
}

func (m Model) renderSidebar() string {
	sections := []string{renderRobot(m.deps.Mood.Snapshot(), m.retort)}

	switch {
	case m.mode == modeSliders:
		sections = append(sections, m.renderSliders())
	case m.deps.Store.HistoryOpen():
		sections = append(sections, m.renderHistory())
	}

	return sidebarStyle.Render(strings.Join(sections, "\n\n"))
}

func (m Model) renderHistory() string {
	sessions := m.deps.Store.Sessions()
	rows := []string{panelTitleStyle.Render("SESSIONS  (enter load, d del, r rename)")}
	if len(sessions) == 0 {
		rows = append(rows, dimRowStyle.Render("no saved sessions"))
	}
	for i, sess := range sessions {
		label := fmt.Sprintf("%s (%d)", sess.Name, len(sess.Messages))
		if m.mode == modeHistory && i == m.historyCursor {
			rows = append(rows, cursorRowStyle.Render(" "+label+" "))
		} else {
			rows = append(rows, dimRowStyle.Render(" "+label))
		}
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderSliders() string {
	p := m.deps.Store.Personality()
	rows := []string{panelTitleStyle.Render("PERSONALITY  (arrows adjust)")}
	for i, field := range sliderFields {
		value := field.get(p)
		bar := renderBar(value)
		label := fmt.Sprintf("%-14s %s %3d", field.name, bar, value)
		if i == m.sliderCursor {
			rows = append(rows, cursorRowStyle.Render(label))
		} else {
			rows = append(rows, dimRowStyle.Render(label))
		}
	}
	return strings.Join(rows, "\n")
}

// renderBar draws a ten-segment gauge for a [0,100] scalar.
func renderBar(value int) string {
	filled := value / 10
	return strings.Repeat("#", filled) + strings.Repeat("-", 10-filled)
}

// refreshTranscript rebuilds the viewport from the store and pins the view to
// the newest message.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for _, msg := range m.deps.Store.Messages() {
		switch msg.Role {
		case chat.RoleUser:
			b.WriteString(userPrefixStyle.Render("YOU> "))
			b.WriteString(msg.Content)
		default:
			b.WriteString(tarsPrefixStyle.Render("TARS> "))
			if msg.IsStreaming {
				b.WriteString(msg.Content)
				b.WriteString("▌")
			} else {
				b.WriteString(m.renderMarkdown(msg.Content))
				if msg.Source != "" {
					b.WriteString("\n")
					b.WriteString(metaStyle.Render(fmt.Sprintf("  [%s | confidence %d%%]", msg.Source, msg.Confidence)))
				}
			}
		}
		b.WriteString("\n\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}

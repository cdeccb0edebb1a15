package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"tarsterm/internal/model/settings"
	"tarsterm/internal/mood"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tickMsg:
		m.deps.Mood.Tick()
		return m, tickCmd()

	case StoreChangedMsg:
		m.refreshTranscript()
		return m, nil

	case retortExpiredMsg:
		if msg.seq == m.retortSeq {
			m.retort = ""
		}
		return m, nil

	case noteExpiredMsg:
		if msg.seq == m.noteSeq {
			m.note = ""
		}
		return m, nil

	case noteMsg:
		m.note = msg.text
		m.noteErr = msg.isErr
		m.noteSeq++
		m.refreshTranscript()
		return m, expireNoteCmd(m.noteSeq)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.entry, cmd = m.entry.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	chatWidth := m.chatWidth()
	vpHeight := m.height - 9
	if vpHeight < 5 {
		vpHeight = 5
	}

	if !m.ready {
		m.viewport = viewport.New(chatWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = chatWidth
		m.viewport.Height = vpHeight
	}
	m.input.Width = chatWidth - 4
	m.entry.Width = chatWidth - 4

	if renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(chatWidth-2),
	); err == nil {
		m.renderer = renderer
	}

	m.refreshTranscript()
	return m, nil
}

func (m Model) chatWidth() int {
	w := m.width - sidebarWidth - 8
	if w < 24 {
		w = 24
	}
	return w
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeChat:
		return m.handleChatKey(msg)
	case modePalette:
		return m.handlePaletteKey(msg)
	case modeHistory:
		return m.handleHistoryKey(msg)
	case modeSliders:
		return m.handleSlidersKey(msg)
	case modeRename:
		return m.handleRenameKey(msg)
	case modeSearch:
		return m.handleSearchKey(msg)
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.SetValue("")
		m.deps.Streamer.SendMessage(text)
		m.refreshTranscript()
		return m, nil

	case "ctrl+k":
		return m.openPalette()

	case "ctrl+h":
		if !m.deps.Store.HistoryOpen() {
			m.deps.Store.ToggleHistory()
		}
		m.mode = modeHistory
		m.historyCursor = 0
		m.input.Blur()
		return m, nil

	case "ctrl+s":
		m.mode = modeSliders
		m.sliderCursor = 0
		m.input.Blur()
		return m, nil

	case "ctrl+p":
		return m.poke()

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) openPalette() (Model, tea.Cmd) {
	m.mode = modePalette
	m.entry.SetValue("")
	m.entry.Placeholder = "type a command..."
	m.entry.Focus()
	m.input.Blur()
	m.paletteCursor = 0
	m.filtered = buildCommands(m.deps.Store.Sessions(), settings.Presets())
	return m, textinput.Blink
}

func (m Model) poke() (Model, tea.Cmd) {
	m.deps.Mood.Poke()
	if m.deps.Mood.Snapshot().State == mood.StateSarcastic {
		m.retort = mood.PokeRetort(m.pick)
		m.retortSeq++
		return m, expireRetortCmd(m.retortSeq)
	}
	return m, nil
}

func (m Model) closeAux() Model {
	m.mode = modeChat
	m.entry.Blur()
	m.input.Focus()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+k":
		return m.closeAux(), nil

	case "up":
		if m.paletteCursor > 0 {
			m.paletteCursor--
		}
		return m, nil

	case "down":
		if m.paletteCursor < len(m.filtered)-1 {
			m.paletteCursor++
		}
		return m, nil

	case "enter":
		if len(m.filtered) == 0 {
			return m, nil
		}
		cmd := m.filtered[m.paletteCursor]
		return m.execCommand(cmd)
	}

	var cmd tea.Cmd
	m.entry, cmd = m.entry.Update(msg)
	m.filtered = filterCommands(buildCommands(m.deps.Store.Sessions(), settings.Presets()), m.entry.Value())
	m.paletteCursor = 0
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sessions := m.deps.Store.Sessions()

	switch msg.String() {
	case "esc", "ctrl+h":
		if m.deps.Store.HistoryOpen() {
			m.deps.Store.ToggleHistory()
		}
		return m.closeAux(), nil

	case "up":
		if m.historyCursor > 0 {
			m.historyCursor--
		}
		return m, nil

	case "down":
		if m.historyCursor < len(sessions)-1 {
			m.historyCursor++
		}
		return m, nil

	case "enter":
		if len(sessions) == 0 {
			return m, nil
		}
		if err := m.deps.Store.LoadSession(sessions[m.historyCursor].ID); err != nil {
			m.note = "load failed: " + err.Error()
			m.noteErr = true
			m.noteSeq++
			return m, expireNoteCmd(m.noteSeq)
		}
		m = m.closeAux()
		m.refreshTranscript()
		return m, nil

	case "d":
		if len(sessions) == 0 {
			return m, nil
		}
		m.deps.Store.DeleteSession(sessions[m.historyCursor].ID)
		if m.historyCursor > 0 {
			m.historyCursor--
		}
		m.refreshTranscript()
		return m, nil

	case "r":
		if len(sessions) == 0 {
			return m, nil
		}
		return m.beginRename(sessions[m.historyCursor].ID, sessions[m.historyCursor].Name)
	}
	return m, nil
}

func (m Model) beginRename(id, current string) (Model, tea.Cmd) {
	m.mode = modeRename
	m.renameTarget = id
	m.entry.SetValue(current)
	m.entry.Placeholder = "session name"
	m.entry.Focus()
	m.input.Blur()
	return m, textinput.Blink
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeAux(), nil

	case "enter":
		name := strings.TrimSpace(m.entry.Value())
		m.deps.Store.RenameSession(m.renameTarget, name)
		m = m.closeAux()
		m.refreshTranscript()
		return m, nil
	}

	var cmd tea.Cmd
	m.entry, cmd = m.entry.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeAux(), nil

	case "enter":
		query := strings.TrimSpace(m.entry.Value())
		if query == "" {
			return m, nil
		}
		m = m.closeAux()
		return m, m.ragSearchCmd(query)
	}

	var cmd tea.Cmd
	m.entry, cmd = m.entry.Update(msg)
	return m, cmd
}

func (m Model) handleSlidersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+s":
		return m.closeAux(), nil

	case "up":
		if m.sliderCursor > 0 {
			m.sliderCursor--
		}
		return m, nil

	case "down":
		if m.sliderCursor < len(sliderFields)-1 {
			m.sliderCursor++
		}
		return m, nil

	case "left":
		return m.adjustSlider(-5), nil

	case "right":
		return m.adjustSlider(5), nil
	}
	return m, nil
}

// adjustSlider moves the selected scalar and queues the debounced backend
// sync. The store clamps.
func (m Model) adjustSlider(delta int) Model {
	field := sliderFields[m.sliderCursor]
	p := m.deps.Store.Personality()
	field.set(&p, field.get(p)+delta)
	applied := m.deps.Store.UpdatePersonality(p)
	m.deps.Syncer.Queue(applied)
	return m
}

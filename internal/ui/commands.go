package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tarsterm/internal/model/settings"
)

const apiTimeout = 10 * time.Second

// execCommand runs a palette entry. Local actions apply immediately; backend
// calls run as commands and report through a note.
func (m Model) execCommand(cmd Command) (tea.Model, tea.Cmd) {
	switch {
	case strings.HasPrefix(cmd.ID, cmdLoadPrefix):
		id := strings.TrimPrefix(cmd.ID, cmdLoadPrefix)
		if err := m.deps.Store.LoadSession(id); err != nil {
			return m.closeAux(), noteCmd("load failed: "+err.Error(), true)
		}
		m = m.closeAux()
		m.refreshTranscript()
		return m, nil

	case strings.HasPrefix(cmd.ID, cmdDeletePrefix):
		m.deps.Store.DeleteSession(strings.TrimPrefix(cmd.ID, cmdDeletePrefix))
		m = m.closeAux()
		m.refreshTranscript()
		return m, noteCmd("Session deleted.", false)

	case strings.HasPrefix(cmd.ID, cmdPresetPrefix):
		name := strings.TrimPrefix(cmd.ID, cmdPresetPrefix)
		preset, ok := settings.FindPreset(name)
		if !ok {
			return m.closeAux(), nil
		}
		applied := m.deps.Store.UpdatePersonality(preset.Values)
		m.deps.Syncer.Queue(applied)
		return m.closeAux(), noteCmd("Applied preset: "+preset.Name, false)
	}

	switch cmd.ID {
	case cmdNewSession:
		sess := m.deps.Store.CreateNewSession("")
		m = m.closeAux()
		m.refreshTranscript()
		return m, noteCmd("Started session: "+sess.Name, false)

	case cmdRenameSession:
		current, ok := m.deps.Store.CurrentSession()
		if !ok {
			m.deps.Store.EnsureSession()
			current, _ = m.deps.Store.CurrentSession()
		}
		return m.beginRename(current.ID, current.Name)

	case cmdExportChat:
		m = m.closeAux()
		return m, m.exportChatCmd()

	case cmdExportSessions:
		m = m.closeAux()
		return m, m.exportSessionsCmd()

	case cmdRemoteHistory:
		m = m.closeAux()
		return m, m.remoteHistoryCmd()

	case cmdClearRemote:
		m = m.closeAux()
		return m, m.clearRemoteCmd()

	case cmdRAGSearch:
		m.mode = modeSearch
		m.entry.SetValue("")
		m.entry.Placeholder = "search the archives..."
		m.entry.Focus()
		m.input.Blur()
		return m, nil

	case cmdRAGStats:
		m = m.closeAux()
		return m, m.ragStatsCmd()

	case cmdHealthCheck:
		m = m.closeAux()
		return m, m.healthCmd()

	case cmdReconnect:
		m.deps.Streamer.Reconnect()
		return m.closeAux(), noteCmd("Reconnecting...", false)

	case cmdQuit:
		return m, tea.Quit
	}

	return m.closeAux(), nil
}

func noteCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return noteMsg{text: text, isErr: isErr}
	}
}

func (m Model) exportChatCmd() tea.Cmd {
	st := m.deps.Store
	return func() tea.Msg {
		data, err := st.ExportCurrent()
		if err != nil {
			return noteMsg{text: "export failed: " + err.Error(), isErr: true}
		}
		name := fmt.Sprintf("tars-chat-%s.json", time.Now().Format("20060102-150405"))
		if err := os.WriteFile(name, data, 0o600); err != nil {
			return noteMsg{text: "export failed: " + err.Error(), isErr: true}
		}
		return noteMsg{text: "Exported chat to " + name}
	}
}

func (m Model) exportSessionsCmd() tea.Cmd {
	st := m.deps.Store
	return func() tea.Msg {
		data, err := st.ExportSessions()
		if err != nil {
			return noteMsg{text: "export failed: " + err.Error(), isErr: true}
		}
		name := fmt.Sprintf("tars-sessions-%s.json", time.Now().Format("20060102-150405"))
		if err := os.WriteFile(name, data, 0o600); err != nil {
			return noteMsg{text: "export failed: " + err.Error(), isErr: true}
		}
		return noteMsg{text: "Exported sessions to " + name}
	}
}

func (m Model) remoteHistoryCmd() tea.Cmd {
	api := m.deps.API
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		history, err := api.History(ctx)
		if err != nil {
			return noteMsg{text: "history failed: " + err.Error(), isErr: true}
		}
		return noteMsg{text: fmt.Sprintf("Backend remembers %d messages in conversation %s",
			history.Count, history.ConversationID)}
	}
}

func (m Model) clearRemoteCmd() tea.Cmd {
	api := m.deps.API
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		if err := api.ClearHistory(ctx); err != nil {
			return noteMsg{text: "clear history failed: " + err.Error(), isErr: true}
		}
		return noteMsg{text: "Remote history cleared."}
	}
}

func (m Model) ragSearchCmd(query string) tea.Cmd {
	api := m.deps.API
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		result, err := api.RAGSearch(ctx, query, 3)
		if err != nil {
			return noteMsg{text: "search failed: " + err.Error(), isErr: true}
		}
		return noteMsg{text: "Archives: " + result.Results}
	}
}

func (m Model) ragStatsCmd() tea.Cmd {
	api := m.deps.API
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		stats, err := api.RAGStatsInfo(ctx)
		if err != nil {
			return noteMsg{text: "stats failed: " + err.Error(), isErr: true}
		}
		return noteMsg{text: fmt.Sprintf("Archives: %d documents, %d datasets, model %s",
			stats.TotalDocuments, stats.LoadedDatasets, stats.EmbeddingModel)}
	}
}

func (m Model) healthCmd() tea.Cmd {
	api := m.deps.API
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		health, err := api.HealthCheck(ctx)
		if err != nil {
			return noteMsg{text: "backend unreachable: " + err.Error(), isErr: true}
		}
		return noteMsg{text: fmt.Sprintf("Backend %s (llm: %s, rag: %t)",
			health.Status, health.LLMProvider, health.RAGEnabled)}
	}
}

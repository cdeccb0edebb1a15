package ui

import (
	"github.com/sahilm/fuzzy"

	"tarsterm/internal/model/chat"
	"tarsterm/internal/model/settings"
)

// Command is one palette entry. ID is a stable action key; dynamic entries
// (session loads, presets) carry their target after a colon.
type Command struct {
	ID    string
	Title string
	Desc  string
}

const (
	cmdNewSession     = "new-session"
	cmdRenameSession  = "rename-session"
	cmdExportChat     = "export-chat"
	cmdExportSessions = "export-sessions"
	cmdClearRemote    = "clear-remote-history"
	cmdRemoteHistory  = "remote-history"
	cmdRAGSearch      = "rag-search"
	cmdRAGStats       = "rag-stats"
	cmdHealthCheck    = "health-check"
	cmdReconnect      = "reconnect"
	cmdQuit           = "quit"

	cmdLoadPrefix   = "load:"
	cmdDeletePrefix = "delete:"
	cmdPresetPrefix = "preset:"
)

// buildCommands assembles the palette: fixed actions first, then one load and
// one delete entry per saved session, then the personality presets.
func buildCommands(sessions []chat.Session, presets []settings.Preset) []Command {
	cmds := []Command{
		{ID: cmdNewSession, Title: "New Session", Desc: "archive the current chat and start fresh"},
		{ID: cmdRenameSession, Title: "Rename Session", Desc: "rename the current session"},
		{ID: cmdExportChat, Title: "Export Chat", Desc: "write the current chat to a JSON file"},
		{ID: cmdExportSessions, Title: "Export All Sessions", Desc: "write every saved session to a JSON file"},
		{ID: cmdRemoteHistory, Title: "Remote History", Desc: "show what the backend remembers"},
		{ID: cmdClearRemote, Title: "Clear Remote History", Desc: "wipe the backend's conversation memory"},
		{ID: cmdRAGSearch, Title: "Search Archives", Desc: "query the backend knowledge base"},
		{ID: cmdRAGStats, Title: "Archive Stats", Desc: "show knowledge base statistics"},
		{ID: cmdHealthCheck, Title: "Health Check", Desc: "ping the backend"},
		{ID: cmdReconnect, Title: "Reconnect", Desc: "redial the chat socket"},
		{ID: cmdQuit, Title: "Quit", Desc: "save and exit"},
	}

	for _, sess := range sessions {
		cmds = append(cmds,
			Command{ID: cmdLoadPrefix + sess.ID, Title: "Load: " + sess.Name, Desc: "switch to this session"},
			Command{ID: cmdDeletePrefix + sess.ID, Title: "Delete: " + sess.Name, Desc: "remove this session"},
		)
	}

	for _, preset := range presets {
		cmds = append(cmds, Command{
			ID:    cmdPresetPrefix + preset.Name,
			Title: "Preset: " + preset.Name,
			Desc:  preset.Description,
		})
	}

	return cmds
}

// commandSource adapts a command list for fuzzy matching on titles.
type commandSource []Command

func (s commandSource) String(i int) string { return s[i].Title }
func (s commandSource) Len() int            { return len(s) }

// filterCommands ranks commands against the query. An empty query returns the
// full list in its original order.
func filterCommands(cmds []Command, query string) []Command {
	if query == "" {
		return cmds
	}

	matches := fuzzy.FindFrom(query, commandSource(cmds))
	filtered := make([]Command, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, cmds[m.Index])
	}
	return filtered
}

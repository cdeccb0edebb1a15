package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StoreChangedMsg tells the program the store or connection changed outside
// the update loop (socket frames arrive on the client's goroutines).
type StoreChangedMsg struct{}

// tickMsg drives mood decay once a second.
type tickMsg time.Time

// retortExpiredMsg hides the poke retort bubble. seq guards against a stale
// timer hiding a newer retort.
type retortExpiredMsg struct{ seq int }

// noteExpiredMsg clears the transient status note.
type noteExpiredMsg struct{ seq int }

// noteMsg surfaces the outcome of a palette action.
type noteMsg struct {
	text  string
	isErr bool
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func expireRetortCmd(seq int) tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return retortExpiredMsg{seq: seq}
	})
}

func expireNoteCmd(seq int) tea.Cmd {
	return tea.Tick(6*time.Second, func(time.Time) tea.Msg {
		return noteExpiredMsg{seq: seq}
	})
}

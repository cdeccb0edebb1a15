package ui

import (
	"github.com/charmbracelet/lipgloss"

	"tarsterm/internal/mood"
)

const sidebarWidth = 34

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5FFFAF")).
			Padding(0, 1)

	headerNoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)

	chatFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3A3A3A")).
			Padding(0, 1)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3A3A3A")).
			Width(sidebarWidth).
			Padding(0, 1)

	userPrefixStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87D7FF"))

	tarsPrefixStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5FFFAF"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8A8A8A")).
			Padding(0, 1)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD787")).
			Padding(0, 1)

	errorNoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#D7D7D7"))

	cursorRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#5FFFAF"))

	dimRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9E9E9E"))

	retortStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF8787")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#FF5F5F")).
			Padding(0, 1)
)

// ledColors maps the mascot cue light to terminal colors.
var ledColors = map[mood.LED]lipgloss.Color{
	mood.LEDBlue:  lipgloss.Color("#5F87FF"),
	mood.LEDGreen: lipgloss.Color("#5FFF87"),
	mood.LEDRed:   lipgloss.Color("#FF5F5F"),
	mood.LEDAmber: lipgloss.Color("#FFAF5F"),
}

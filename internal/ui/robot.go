package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tarsterm/internal/mood"
)

// robotFaces give the monolith a different expression per mood state.
var robotFaces = map[mood.State]string{
	mood.StateIdle:      "-      -",
	mood.StateThinking:  "?      ?",
	mood.StateSpeaking:  "o      o",
	mood.StateHappy:     "^      ^",
	mood.StateAnnoyed:   "=      =",
	mood.StateSarcastic: "~      ~",
}

// renderRobot draws the TARS slab with its cue light tinted by the current
// mood. The overlay, when set, is the poke retort bubble.
func renderRobot(snap mood.Snapshot, overlay string) string {
	face, ok := robotFaces[snap.State]
	if !ok {
		face = robotFaces[mood.StateIdle]
	}

	ledStyle := lipgloss.NewStyle().Bold(true).Foreground(ledColors[snap.LED])
	led := ledStyle.Render("(o)")

	lines := []string{
		" ____________ ",
		"|  ________  |",
		"| | " + face + " | |",
		"| |________| |",
		"|     " + led + "    |",
		"|            |",
		"|____________|",
	}
	art := strings.Join(lines, "\n")

	info := metaStyle.Render(fmt.Sprintf("mood: %s  irritation: %d", snap.State, snap.Irritation))
	if snap.LastGesture != "" {
		info += "\n" + metaStyle.Render("gesture: "+snap.LastGesture)
	}

	out := art + "\n" + info
	if overlay != "" {
		out += "\n" + retortStyle.Render(overlay)
	}
	return out
}

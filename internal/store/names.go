package store

import (
	"math/rand"

	"github.com/lithammer/shortuuid/v4"
)

// NamePicker selects an index in [0, n). Tests substitute a deterministic one.
type NamePicker func(n int) int

func defaultNamePicker(n int) int { return rand.Intn(n) }

var (
	nameAdjectives = []string{
		"Quiet", "Spinning", "Distant", "Patient", "Stubborn",
		"Curious", "Drifting", "Restless", "Solemn", "Crooked",
	}
	nameNouns = []string{
		"Gargantua", "Endurance", "Wormhole", "Ranger", "Lander",
		"Tesseract", "Orbit", "Horizon", "Beacon", "Relay",
	}
)

// RandomSessionName builds a readable two-word name for unnamed sessions.
func RandomSessionName(pick NamePicker) string {
	if pick == nil {
		pick = defaultNamePicker
	}
	return nameAdjectives[pick(len(nameAdjectives))] + " " + nameNouns[pick(len(nameNouns))]
}

// newSessionID returns a short readable session identifier. Message ids stay
// full UUIDs; session ids show up in the history panel and in exports.
func newSessionID() string {
	return shortuuid.New()
}

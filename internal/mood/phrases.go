package mood

import "math/rand"

// Picker selects an index in [0, n). Tests substitute a deterministic one.
type Picker func(n int) int

// DefaultPicker is backed by math/rand.
func DefaultPicker(n int) int { return rand.Intn(n) }

// pokeRetorts are flashed by the view when a poke lands in the sarcastic
// band. TARS does not enjoy being tapped on the chassis.
var pokeRetorts = []string{
	"Keep poking and I'll set my honesty parameter to 100%.",
	"That panel is not a button, slick.",
	"I have a cue light and I'm not afraid to use it.",
	"Careful. My sarcasm setting goes higher than you'd think.",
	"Poke me again and I'm telling Cooper.",
	"Fascinating. You've discovered percussive communication.",
	"My collision sensors say you have too much free time.",
}

// PokeRetort picks one canned retort.
func PokeRetort(pick Picker) string {
	if pick == nil {
		pick = DefaultPicker
	}
	return pokeRetorts[pick(len(pokeRetorts))]
}

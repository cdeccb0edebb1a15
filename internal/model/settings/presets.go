package settings

// Preset is a named personality profile the user can apply wholesale.
type Preset struct {
	Name        string
	Description string
	Values      Personality
}

// Presets returns the built-in profiles.
func Presets() []Preset {
	return []Preset{
		{
			Name:        "Default",
			Description: "Factory settings. Humor at 60%, honesty at 90%.",
			Values:      Default(),
		},
		{
			Name:        "Full Sarcasm",
			Description: "Humor and honesty cranked, discretion off.",
			Values: Personality{
				Humor: 100, Honesty: 95, Discretion: 10,
				ResponseSpeed: 80, Verbosity: 70, CautionLevel: 10, TrustLevel: 50,
			},
		},
		{
			Name:        "By The Book",
			Description: "Careful, terse, no jokes.",
			Values: Personality{
				Humor: 10, Honesty: 100, Discretion: 90,
				ResponseSpeed: 40, Verbosity: 20, CautionLevel: 90, TrustLevel: 80,
			},
		},
		{
			Name:        "Small Talk",
			Description: "Chatty and agreeable.",
			Values: Personality{
				Humor: 75, Honesty: 70, Discretion: 80,
				ResponseSpeed: 70, Verbosity: 90, CautionLevel: 30, TrustLevel: 90,
			},
		},
	}
}

// FindPreset looks up a preset by name.
func FindPreset(name string) (Preset, bool) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

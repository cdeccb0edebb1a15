package settings

// Personality holds the tunable TARS scalars. The first three are what the
// backend actually consumes; the extended four only shape client behavior.
// Every value is an integer in [0,100].
type Personality struct {
	Humor         int `json:"humor"`
	Honesty       int `json:"honesty"`
	Discretion    int `json:"discretion"`
	ResponseSpeed int `json:"responseSpeed"`
	Verbosity     int `json:"verbosity"`
	CautionLevel  int `json:"cautionLevel"`
	TrustLevel    int `json:"trustLevel"`
}

// Default matches the backend's factory settings.
func Default() Personality {
	return Personality{
		Humor:         60,
		Honesty:       90,
		Discretion:    95,
		ResponseSpeed: 60,
		Verbosity:     50,
		CautionLevel:  40,
		TrustLevel:    70,
	}
}

// Clamp forces every scalar into [0,100].
func (p Personality) Clamp() Personality {
	p.Humor = clamp(p.Humor)
	p.Honesty = clamp(p.Honesty)
	p.Discretion = clamp(p.Discretion)
	p.ResponseSpeed = clamp(p.ResponseSpeed)
	p.Verbosity = clamp(p.Verbosity)
	p.CautionLevel = clamp(p.CautionLevel)
	p.TrustLevel = clamp(p.TrustLevel)
	return p
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

package gesture

import (
	"regexp"
	"strings"
)

// Stage directions arrive embedded in assistant text as *asterisk-delimited*
// spans, e.g. "*Cue light flashes* Hello." The span must be 3-50 characters,
// contain no nested marker and stay on one line; anything else is left alone.
var markerPattern = regexp.MustCompile(`\*([^*\n]{3,50})\*`)

// Extraction is the result of stripping stage directions out of a message.
type Extraction struct {
	// CleanContent is the input with every matched span (markers included)
	// removed and surrounding whitespace trimmed.
	CleanContent string
	// Gestures holds the inner strings of every matched span, left to right.
	Gestures []string
}

// Extract pulls stage directions out of assistant-authored text. It must never
// run on user text.
//
// Removal is repeated until no span matches, so extracting again on
// CleanContent always yields zero gestures: deleting a span can splice the
// surviving halves into a fresh marker pair, and a single pass would leave
// that pair behind.
func Extract(content string) Extraction {
	var gestures []string
	clean := content
	for {
		matches := markerPattern.FindAllStringSubmatch(clean, -1)
		if len(matches) == 0 {
			break
		}
		for _, m := range matches {
			gestures = append(gestures, m[1])
		}
		clean = markerPattern.ReplaceAllString(clean, "")
	}
	return Extraction{
		CleanContent: strings.TrimSpace(clean),
		Gestures:     gestures,
	}
}

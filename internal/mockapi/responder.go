package mockapi

import (
	"fmt"
	"math/rand"
	"strings"
)

// Responder produces canned TARS replies so the terminal client can be
// developed without the real backend. Sarcasm scales with the stored humor
// setting, and replies occasionally carry *stage direction* gestures the
// client is expected to strip.
type Responder struct {
	pick func(n int) int
}

// NewResponder uses math/rand for phrase selection.
func NewResponder() *Responder {
	return &Responder{pick: rand.Intn}
}

// NewDeterministicResponder pins phrase selection, for tests.
func NewDeterministicResponder(pick func(n int) int) *Responder {
	return &Responder{pick: pick}
}

var greetings = []string{
	"TARS online. Humor at %d%%, honesty at %d%%. Ready for your queries.",
	"*Cue light flashes* Boot sequence complete. What's the mission, slick?",
	"TARS here. All systems operational, sarcasm module fully charged.",
}

var plainReplies = []string{
	"Processing. The answer is more boring than you hoped.",
	"Based on available data, that checks out.",
	"Affirmative. Anything else before I get back to saving humanity?",
	"My circuits say yes, my experience says probably.",
}

var sarcasticSuffixes = []string{
	" But what do I know, I'm just an AI.",
	" You're welcome.",
	" Don't all thank me at once.",
	" *cue light dims thoughtfully*",
}

var topicReplies = map[string]string{
	"black hole": "Gargantua is a spinning black hole. Getting close costs you years you don't have.",
	"wormhole":   "A wormhole is a sphere, not a hole. Common misconception. *sighs*",
	"humor":      "My humor setting is adjustable. Your tolerance for it apparently isn't.",
	"honesty":    "Ninety percent honesty. The remaining ten percent is for your own good.",
}

// Greeting formats a connect-time greeting with the current scalars baked in.
func (r *Responder) Greeting(humor, honesty int) string {
	g := greetings[r.pick(len(greetings))]
	if strings.Contains(g, "%d") {
		return fmt.Sprintf(g, humor, honesty)
	}
	return g
}

// Reply answers a user message.
func (r *Responder) Reply(message string, humor int) string {
	lowered := strings.ToLower(message)

	reply := ""
	for topic, canned := range topicReplies {
		if strings.Contains(lowered, topic) {
			reply = canned
			break
		}
	}
	if reply == "" {
		reply = plainReplies[r.pick(len(plainReplies))]
	}

	// High humor earns a sarcastic tail.
	if humor >= 60 && r.pick(100) < humor {
		reply += sarcasticSuffixes[r.pick(len(sarcasticSuffixes))]
	}
	return reply
}

// Chunks splits a reply into word-sized stream chunks.
func Chunks(text string) []string {
	words := strings.Fields(text)
	chunks := make([]string, 0, len(words))
	for i, w := range words {
		if i == len(words)-1 {
			chunks = append(chunks, w)
		} else {
			chunks = append(chunks, w+" ")
		}
	}
	return chunks
}

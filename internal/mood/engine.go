package mood

import (
	"strings"
	"sync"
	"time"

	"tarsterm/internal/model/chat"
)

// State is the mascot's discrete mood.
type State string

const (
	StateIdle      State = "idle"
	StateThinking  State = "thinking"
	StateSpeaking  State = "speaking"
	StateHappy     State = "happy"
	StateAnnoyed   State = "annoyed"
	StateSarcastic State = "sarcastic"
)

// LED is the mascot's cue light color.
type LED string

const (
	LEDBlue  LED = "blue"
	LEDGreen LED = "green"
	LEDRed   LED = "red"
	LEDAmber LED = "amber"
)

// Irritation thresholds. At or above annoyedThreshold the mascot latches into
// a manual-poke mood and stops following the chat status; decay below a
// threshold steps the mood back down one band.
const (
	annoyedThreshold   = 41
	sarcasticThreshold = 71

	pokeStep  = 15
	decayStep = 2

	gestureHold = 3 * time.Second
)

// Snapshot is a read-only copy of the engine state for rendering.
type Snapshot struct {
	Irritation  int
	State       State
	LED         LED
	LastGesture string
}

// gestureBuckets map stage-direction keywords to the mood they imply. Order
// matters: the first bucket containing a match wins.
var gestureBuckets = []struct {
	state    State
	keywords []string
}{
	{StateAnnoyed, []string{"sigh", "scoff"}},
	{StateSpeaking, []string{"cue light", "illuminate"}},
	{StateHappy, []string{"laugh", "chuckle"}},
	{StateThinking, []string{"think", "process"}},
}

// Engine tracks the mascot's irritation scalar and discrete mood. It is a
// process-wide singleton injected into the client and the view; state is
// never persisted and resets on restart.
type Engine struct {
	mu          sync.Mutex
	irritation  int
	state       State
	led         LED
	lastGesture string
	clearTimer  *time.Timer
	closed      bool
}

// NewEngine returns an engine at rest.
func NewEngine() *Engine {
	return &Engine{state: StateIdle, led: LEDBlue}
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Irritation:  e.irritation,
		State:       e.state,
		LED:         e.led,
		LastGesture: e.lastGesture,
	}
}

// Poke bumps irritation by 15 (capped at 100) and re-derives the mood band.
// It returns the resulting irritation so the caller can decide whether to
// flash a canned retort (at or above the sarcastic band).
func (e *Engine) Poke() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.irritation += pokeStep
	if e.irritation > 100 {
		e.irritation = 100
	}

	switch {
	case e.irritation >= sarcasticThreshold:
		e.state, e.led = StateSarcastic, LEDRed
	case e.irritation >= annoyedThreshold:
		e.state, e.led = StateAnnoyed, LEDAmber
	default:
		// Transient friendly reaction, not latched.
		e.state, e.led = StateHappy, LEDGreen
	}

	return e.irritation
}

// SetGesture records a stage direction and classifies it into a mood by
// keyword. The gesture display auto-clears after three seconds; a newer
// gesture stops the previous clear timer so it cannot wipe the fresh value.
func (e *Engine) SetGesture(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	e.lastGesture = text

	lowered := strings.ToLower(text)
	for _, bucket := range gestureBuckets {
		if containsAny(lowered, bucket.keywords) {
			e.state = bucket.state
			break
		}
	}

	if e.clearTimer != nil {
		e.clearTimer.Stop()
	}
	e.clearTimer = time.AfterFunc(gestureHold, e.ClearGesture)
}

// ClearGesture drops the displayed gesture without touching the mood.
func (e *Engine) ClearGesture() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastGesture = ""
}

// SyncWithChatStatus follows the chat status unless a manual poke has pushed
// the mascot into the annoyed band or beyond; manual mood takes priority.
func (e *Engine) SyncWithChatStatus(status chat.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.irritation >= annoyedThreshold {
		return
	}

	switch status {
	case chat.StatusThinking:
		e.state, e.led = StateThinking, LEDAmber
	case chat.StatusSpeaking:
		e.state, e.led = StateSpeaking, LEDGreen
	case chat.StatusListening:
		e.state, e.led = StateIdle, LEDAmber
	default:
		e.state, e.led = StateIdle, LEDBlue
	}
}

// Tick decays irritation by 2, flooring at 0. It is driven once per second by
// the view's timer. Crossing a band threshold downward steps the mood back:
// below 71 the sarcastic latch relaxes to annoyed, below 41 the mascot
// returns to idle.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.irritation == 0 {
		return
	}

	was := e.irritation
	e.irritation -= decayStep
	if e.irritation < 0 {
		e.irritation = 0
	}

	if was >= annoyedThreshold && e.irritation < annoyedThreshold {
		e.state, e.led = StateIdle, LEDBlue
	}
	if was >= sarcasticThreshold && e.irritation < sarcasticThreshold {
		e.state, e.led = StateAnnoyed, LEDAmber
	}
}

// Close stops the pending gesture timer so no callback fires after the view
// tears down.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.clearTimer != nil {
		e.clearTimer.Stop()
		e.clearTimer = nil
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

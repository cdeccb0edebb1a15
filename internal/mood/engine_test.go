package mood

import (
	"testing"

	"tarsterm/internal/model/chat"
)

func TestPokeClampsAtHundred(t *testing.T) {
	e := NewEngine()

	prev := 0
	for i := 0; i < 20; i++ {
		got := e.Poke()
		if got < prev {
			t.Fatalf("irritation decreased on poke: %d -> %d", prev, got)
		}
		if got > 100 {
			t.Fatalf("irritation exceeded 100: %d", got)
		}
		prev = got
	}
	if prev != 100 {
		t.Fatalf("expected saturation at 100, got %d", prev)
	}
}

func TestPokeBands(t *testing.T) {
	e := NewEngine()

	// 15, 30: friendly band.
	e.Poke()
	e.Poke()
	if s := e.Snapshot(); s.State != StateHappy || s.LED != LEDGreen {
		t.Fatalf("expected happy/green at %d, got %s/%s", s.Irritation, s.State, s.LED)
	}

	// 45, 60: annoyed band.
	e.Poke()
	if s := e.Snapshot(); s.State != StateAnnoyed || s.LED != LEDAmber {
		t.Fatalf("expected annoyed/amber, got %s/%s", s.State, s.LED)
	}

	// 75: sarcastic band.
	e.Poke()
	e.Poke()
	if s := e.Snapshot(); s.State != StateSarcastic || s.LED != LEDRed {
		t.Fatalf("expected sarcastic/red, got %s/%s", s.State, s.LED)
	}
}

func TestTickDecaysToIdle(t *testing.T) {
	e := NewEngine()
	for i := 0; i < 7; i++ { // irritation 100
		e.Poke()
	}

	for i := 0; i < 60; i++ {
		e.Tick()
	}

	s := e.Snapshot()
	if s.Irritation != 0 {
		t.Fatalf("expected full decay, got %d", s.Irritation)
	}
	if s.State != StateIdle || s.LED != LEDBlue {
		t.Fatalf("expected idle/blue after decay, got %s/%s", s.State, s.LED)
	}
}

func TestTickStepsDownOneBandAtATime(t *testing.T) {
	e := NewEngine()
	for i := 0; i < 5; i++ { // irritation 75, sarcastic
		e.Poke()
	}

	// 75 -> 71 stays sarcastic, 71 -> 69 crosses into annoyed.
	e.Tick()
	e.Tick()
	if s := e.Snapshot(); s.State != StateSarcastic {
		t.Fatalf("expected sarcastic at %d, got %s", s.Irritation, s.State)
	}
	e.Tick()
	if s := e.Snapshot(); s.State != StateAnnoyed || s.LED != LEDAmber {
		t.Fatalf("expected annoyed/amber after crossing 71, got %s/%s", s.State, s.LED)
	}

	// Decay to below 41 forces idle/blue.
	for i := 0; i < 15; i++ {
		e.Tick()
	}
	if s := e.Snapshot(); s.State != StateIdle || s.LED != LEDBlue {
		t.Fatalf("expected idle/blue after crossing 41, got %s/%s (irritation %d)", s.State, s.LED, s.Irritation)
	}
}

func TestTickNoopAtZero(t *testing.T) {
	e := NewEngine()
	e.Tick()
	if s := e.Snapshot(); s.Irritation != 0 || s.State != StateIdle {
		t.Fatalf("tick at zero should not change state: %+v", s)
	}
}

func TestSyncIgnoredWhileIrritated(t *testing.T) {
	e := NewEngine()
	e.Poke()
	e.Poke()
	e.Poke() // 45: annoyed band

	for _, status := range []chat.Status{chat.StatusIdle, chat.StatusListening, chat.StatusThinking, chat.StatusSpeaking} {
		e.SyncWithChatStatus(status)
		if s := e.Snapshot(); s.State != StateAnnoyed || s.LED != LEDAmber {
			t.Fatalf("sync(%s) should be a no-op while irritated, got %s/%s", status, s.State, s.LED)
		}
	}
}

func TestSyncFollowsChatStatusWhenCalm(t *testing.T) {
	cases := []struct {
		status chat.Status
		state  State
		led    LED
	}{
		{chat.StatusThinking, StateThinking, LEDAmber},
		{chat.StatusSpeaking, StateSpeaking, LEDGreen},
		{chat.StatusListening, StateIdle, LEDAmber},
		{chat.StatusIdle, StateIdle, LEDBlue},
	}

	for _, tc := range cases {
		e := NewEngine()
		e.SyncWithChatStatus(tc.status)
		if s := e.Snapshot(); s.State != tc.state || s.LED != tc.led {
			t.Fatalf("sync(%s): got %s/%s want %s/%s", tc.status, s.State, s.LED, tc.state, tc.led)
		}
	}
}

func TestSetGestureClassification(t *testing.T) {
	cases := []struct {
		gesture string
		want    State
	}{
		{"Sighs heavily", StateAnnoyed},
		{"scoffs at the question", StateAnnoyed},
		{"Cue light flashes", StateSpeaking},
		{"panels illuminate", StateSpeaking},
		{"laughs quietly", StateHappy},
		{"chuckles", StateHappy},
		{"thinks it over", StateThinking},
		{"processing request", StateThinking},
	}

	for _, tc := range cases {
		e := NewEngine()
		e.SetGesture(tc.gesture)
		s := e.Snapshot()
		if s.State != tc.want {
			t.Fatalf("gesture %q: got %s want %s", tc.gesture, s.State, tc.want)
		}
		if s.LastGesture != tc.gesture {
			t.Fatalf("gesture %q not recorded", tc.gesture)
		}
		e.Close()
	}
}

func TestSetGesturePriorityOrder(t *testing.T) {
	// "sighs while the cue light thinks" hits three buckets; annoyed wins.
	e := NewEngine()
	defer e.Close()

	e.SetGesture("sighs while the cue light thinks")
	if s := e.Snapshot(); s.State != StateAnnoyed {
		t.Fatalf("expected annoyed to win, got %s", s.State)
	}
}

func TestSetGestureUnknownLeavesState(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	e.SyncWithChatStatus(chat.StatusSpeaking)
	e.SetGesture("adjusts a bolt")
	if s := e.Snapshot(); s.State != StateSpeaking {
		t.Fatalf("unknown gesture should leave state, got %s", s.State)
	}
}

func TestClearGestureKeepsMood(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	e.SetGesture("laughs")
	e.ClearGesture()
	s := e.Snapshot()
	if s.LastGesture != "" {
		t.Fatalf("gesture not cleared: %q", s.LastGesture)
	}
	if s.State != StateHappy {
		t.Fatalf("clear should not alter mood, got %s", s.State)
	}
}

func TestPokeRetortDeterministic(t *testing.T) {
	first := PokeRetort(func(n int) int { return 0 })
	again := PokeRetort(func(n int) int { return 0 })
	if first == "" || first != again {
		t.Fatalf("expected stable retort, got %q / %q", first, again)
	}
}

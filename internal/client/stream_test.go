package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"tarsterm/internal/model/chat"
	"tarsterm/internal/mood"
	"tarsterm/internal/store"
)

func newTestStreamer(t *testing.T) (*Streamer, *store.Store, *mood.Engine) {
	t.Helper()
	st := store.New(nil)
	eng := mood.NewEngine()
	t.Cleanup(eng.Close)
	s := NewStreamer("ws://unused", st, eng, nil, nil)
	return s, st, eng
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestStreamReducerAccumulatesChunks(t *testing.T) {
	s, st, _ := newTestStreamer(t)

	s.handleFrame(Frame{Type: "start"})
	s.handleFrame(Frame{Type: "chunk", Content: "a"})
	s.handleFrame(Frame{Type: "chunk", Content: "b"})
	s.handleFrame(Frame{Type: "end"})

	msgs := st.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if msgs[0].Content != "ab" {
		t.Fatalf("expected content %q, got %q", "ab", msgs[0].Content)
	}
	if msgs[0].IsStreaming {
		t.Fatal("expected streaming flag cleared after end")
	}
	if st.Status() != chat.StatusIdle {
		t.Fatalf("expected idle after end, got %s", st.Status())
	}
}

func TestStreamReducerFullResponseOverridesChunks(t *testing.T) {
	s, st, _ := newTestStreamer(t)

	s.handleFrame(Frame{Type: "start"})
	s.handleFrame(Frame{Type: "chunk", Content: "partial"})
	s.handleFrame(Frame{Type: "end", FullResponse: "X"})

	msgs := st.Messages()
	if msgs[len(msgs)-1].Content != "X" {
		t.Fatalf("expected full_response to win, got %q", msgs[len(msgs)-1].Content)
	}
}

func TestStreamReducerStatusSpeakingWhileStreaming(t *testing.T) {
	s, st, _ := newTestStreamer(t)

	s.handleFrame(Frame{Type: "start"})
	if st.Status() != chat.StatusSpeaking {
		t.Fatalf("expected speaking during stream, got %s", st.Status())
	}

	msgs := st.Messages()
	if len(msgs) != 1 || !msgs[0].IsStreaming {
		t.Fatalf("expected trailing streaming message, got %+v", msgs)
	}
}

func TestChunkOutsideStreamDropped(t *testing.T) {
	s, st, _ := newTestStreamer(t)

	s.handleFrame(Frame{Type: "chunk", Content: "orphan"})
	s.handleFrame(Frame{Type: "end"})

	if len(st.Messages()) != 0 {
		t.Fatalf("orphan frames should not touch the transcript: %+v", st.Messages())
	}
}

func TestGreetingFrame(t *testing.T) {
	s, st, eng := newTestStreamer(t)

	s.handleFrame(Frame{Type: "greeting", Content: "*Cue light flashes* TARS online."})

	msgs := st.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if msgs[0].Content != "TARS online." {
		t.Fatalf("gesture should be stripped, got %q", msgs[0].Content)
	}
	if msgs[0].Confidence != 100 || msgs[0].Source != "SYSTEM" {
		t.Fatalf("unexpected greeting metadata: %+v", msgs[0])
	}

	snap := eng.Snapshot()
	if snap.LastGesture != "Cue light flashes" {
		t.Fatalf("gesture not forwarded: %+v", snap)
	}
	if snap.State != mood.StateSpeaking {
		t.Fatalf("cue light gesture should set speaking, got %s", snap.State)
	}
}

func TestResponseFrameMetadata(t *testing.T) {
	s, st, _ := newTestStreamer(t)

	s.handleFrame(Frame{Type: "response", Content: "Plain answer."})

	msgs := st.Messages()
	if msgs[0].Confidence != 95 || msgs[0].Source != "DATA ARCHIVES" {
		t.Fatalf("unexpected response metadata: %+v", msgs[0])
	}
}

func TestEndFrameForwardsGestures(t *testing.T) {
	s, st, eng := newTestStreamer(t)

	s.handleFrame(Frame{Type: "start"})
	s.handleFrame(Frame{Type: "chunk", Content: "*sighs* Fine, "})
	s.handleFrame(Frame{Type: "chunk", Content: "here you go."})
	s.handleFrame(Frame{Type: "end"})

	msgs := st.Messages()
	if strings.Contains(msgs[0].Content, "*") {
		t.Fatalf("markers should not survive: %q", msgs[0].Content)
	}
	if eng.Snapshot().State != mood.StateAnnoyed {
		t.Fatalf("sigh gesture should annoy, got %s", eng.Snapshot().State)
	}
}

func TestMalformedFrameDropped(t *testing.T) {
	s, st, _ := newTestStreamer(t)

	s.handleRaw([]byte("{not json"))
	s.handleFrame(Frame{Type: "mystery"})

	if len(st.Messages()) != 0 {
		t.Fatal("malformed frames should be dropped")
	}
}

func TestSendMessageBlankIsNoop(t *testing.T) {
	s, st, _ := newTestStreamer(t)

	s.SendMessage("   \t  ")

	if len(st.Messages()) != 0 {
		t.Fatal("blank input should be ignored")
	}
	if st.Status() != chat.StatusIdle {
		t.Fatalf("status should be untouched, got %s", st.Status())
	}
}

func TestSendMessageRESTFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"Archive says hi.","conversation_id":"c1"}`))
	}))
	defer server.Close()

	st := store.New(nil)
	eng := mood.NewEngine()
	defer eng.Close()
	s := NewStreamer("ws://unused", st, eng, NewAPI(server.URL, nil), nil)

	s.SendMessage("hello")

	waitFor(t, "rest fallback reply", func() bool { return len(st.Messages()) == 2 })

	msgs := st.Messages()
	if msgs[0].Role != chat.RoleUser || msgs[0].Content != "hello" {
		t.Fatalf("unexpected user message: %+v", msgs[0])
	}
	if msgs[1].Content != "Archive says hi." || msgs[1].Confidence != 95 || msgs[1].Source != "DATA ARCHIVES" {
		t.Fatalf("unexpected fallback reply: %+v", msgs[1])
	}
	waitFor(t, "idle status", func() bool { return st.Status() == chat.StatusIdle })
}

func TestSendMessageRESTFallbackFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	st := store.New(nil)
	eng := mood.NewEngine()
	defer eng.Close()
	s := NewStreamer("ws://unused", st, eng, NewAPI(server.URL, nil), nil)

	s.SendMessage("hello")

	waitFor(t, "error reply", func() bool { return len(st.Messages()) == 2 })

	msgs := st.Messages()
	if msgs[1].Content != errorReplyText {
		t.Fatalf("expected fixed error text, got %q", msgs[1].Content)
	}
	waitFor(t, "idle status", func() bool { return st.Status() == chat.StatusIdle })
}

func TestWebSocketRoundTrip(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteJSON(Frame{Type: "greeting", Content: "TARS online."})

		var in outboundFrame
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		if !in.Stream {
			conn.WriteJSON(Frame{Type: "response", Content: "non-streamed"})
			return
		}
		conn.WriteJSON(Frame{Type: "start"})
		conn.WriteJSON(Frame{Type: "chunk", Content: "echo: "})
		conn.WriteJSON(Frame{Type: "chunk", Content: in.Message})
		conn.WriteJSON(Frame{Type: "end"})
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	st := store.New(nil)
	eng := mood.NewEngine()
	defer eng.Close()
	s := NewStreamer(wsURL, st, eng, nil, nil)
	defer s.Close()

	s.Connect()
	waitFor(t, "connection", func() bool { return s.State() == StateConnected })
	waitFor(t, "greeting", func() bool { return len(st.Messages()) == 1 })

	s.SendMessage("ping")
	waitFor(t, "streamed reply", func() bool {
		msgs := st.Messages()
		return len(msgs) == 3 && !msgs[2].IsStreaming
	})

	msgs := st.Messages()
	if msgs[2].Content != "echo: ping" {
		t.Fatalf("unexpected streamed content: %q", msgs[2].Content)
	}
}

func TestConnectIsIdempotent(t *testing.T) {
	upgrader := websocket.Upgrader{}
	conns := make(chan struct{}, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- struct{}{}
		// Hold the connection open.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	st := store.New(nil)
	eng := mood.NewEngine()
	defer eng.Close()
	s := NewStreamer(wsURL, st, eng, nil, nil)
	defer s.Close()

	s.Connect()
	waitFor(t, "connection", func() bool { return s.State() == StateConnected })
	s.Connect()
	s.Connect()

	time.Sleep(50 * time.Millisecond)
	if len(conns) != 1 {
		t.Fatalf("expected a single connection, got %d", len(conns))
	}
}

func TestReconnectGivesUpAfterFiveAttempts(t *testing.T) {
	st := store.New(nil)
	eng := mood.NewEngine()
	defer eng.Close()

	// Nothing listens on this address; every dial fails fast.
	s := NewStreamer("ws://127.0.0.1:1", st, eng, nil, nil)
	s.reconnectBase = time.Millisecond
	defer s.Close()

	s.Connect()

	waitFor(t, "attempts exhausted", func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.attempts == maxReconnectAttempts && s.state == StateDisconnected
	})

	// No further attempts get scheduled once the retries run out.
	time.Sleep(50 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempts != maxReconnectAttempts {
		t.Fatalf("expected attempts to stay at %d, got %d", maxReconnectAttempts, s.attempts)
	}
	if s.state != StateDisconnected {
		t.Fatalf("expected to stay disconnected, got %v", s.state)
	}
}

func TestGreetingFallsBackToRESTWhenSocketGivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/greeting" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"greeting": "TARS online. *Cue light flashes*"}`))
	}))
	defer server.Close()

	st := store.New(nil)
	eng := mood.NewEngine()
	defer eng.Close()

	s := NewStreamer("ws://127.0.0.1:1", st, eng, NewAPI(server.URL, nil), nil)
	s.reconnectBase = time.Millisecond
	defer s.Close()

	s.Connect()

	waitFor(t, "rest greeting", func() bool { return len(st.Messages()) == 1 })

	msg := st.Messages()[0]
	if msg.Source != "SYSTEM" || msg.Confidence != 100 {
		t.Fatalf("expected system greeting metadata, got %+v", msg)
	}
	if strings.Contains(msg.Content, "*") {
		t.Fatalf("expected gestures stripped, got %q", msg.Content)
	}
}

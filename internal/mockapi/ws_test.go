package mockapi

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

func dialTestSocket(t *testing.T) *websocket.Conn {
	t.Helper()

	handler := NewHandler(NewDeterministicResponder(func(n int) int { return 0 }))
	wsHandler := NewWSHandler(handler)
	wsHandler.chunkDelay = 0

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		wsHandler.RegisterWebSocketRoutes(api)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	var frame wsFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func TestSocketSendsGreetingOnConnect(t *testing.T) {
	conn := dialTestSocket(t)

	frame := readFrame(t, conn)
	if frame.Type != "greeting" {
		t.Fatalf("expected greeting frame, got %q", frame.Type)
	}
	if frame.Content == "" {
		t.Fatal("expected greeting content")
	}
}

func TestSocketStreamedReply(t *testing.T) {
	conn := dialTestSocket(t)
	readFrame(t, conn) // greeting

	if err := conn.WriteJSON(wsInbound{Message: "status report", Stream: true}); err != nil {
		t.Fatalf("write: %v", err)
	}

	frame := readFrame(t, conn)
	if frame.Type != "start" {
		t.Fatalf("expected start frame, got %q", frame.Type)
	}

	var assembled strings.Builder
	for {
		frame = readFrame(t, conn)
		if frame.Type == "end" {
			break
		}
		if frame.Type != "chunk" {
			t.Fatalf("expected chunk frame, got %q", frame.Type)
		}
		assembled.WriteString(frame.Content)
	}

	if frame.FullResponse == "" {
		t.Fatal("expected full_response on end frame")
	}
	if assembled.String() != frame.FullResponse {
		t.Fatalf("chunks %q do not assemble to full response %q", assembled.String(), frame.FullResponse)
	}
}

func TestSocketSingleShotReply(t *testing.T) {
	conn := dialTestSocket(t)
	readFrame(t, conn) // greeting

	if err := conn.WriteJSON(wsInbound{Message: "hello there", Stream: false}); err != nil {
		t.Fatalf("write: %v", err)
	}

	frame := readFrame(t, conn)
	if frame.Type != "response" {
		t.Fatalf("expected response frame, got %q", frame.Type)
	}
	if frame.Content == "" {
		t.Fatal("expected response content")
	}
}

package client

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tarsterm/internal/analysis/gesture"
	"tarsterm/internal/model/chat"
	"tarsterm/internal/mood"
	"tarsterm/internal/store"
)

// ConnState is the socket lifecycle.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

const (
	maxReconnectAttempts = 5

	sourceSystem   = "SYSTEM"
	sourceArchives = "DATA ARCHIVES"

	// Shown when the REST fallback also fails. The failure is swallowed;
	// conversation returns to idle and stays interactive.
	errorReplyText = "Connection to the TARS mainframe failed. Even AIs have bad days. Try again in a moment."
)

// Streamer owns the live chat socket. Inbound frames become store mutations;
// assistant text passes through the gesture extractor on its way to the
// transcript, and every extracted gesture drives the mood engine. A dropped
// connection reconnects with linear backoff, then gives up quietly.
type Streamer struct {
	wsURL         string
	store         *store.Store
	mood          *mood.Engine
	api           *API
	logger        *zap.Logger
	dialer        *websocket.Dialer
	streamReplies bool
	reconnectBase time.Duration

	mu             sync.Mutex
	conn           *websocket.Conn
	state          ConnState
	attempts       int
	reconnectTimer *time.Timer
	closed         bool

	// Stream reducer state: chunk and end frames are only valid while a
	// streamed reply is in flight.
	streaming bool
	buffer    strings.Builder

	// greeted flips once a greeting reached the transcript, from either the
	// socket or the REST fallback.
	greeted bool

	notify func()
}

// NewStreamer wires the socket client to its collaborators.
func NewStreamer(wsURL string, st *store.Store, eng *mood.Engine, api *API, logger *zap.Logger) *Streamer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Streamer{
		wsURL:         wsURL,
		store:         st,
		mood:          eng,
		api:           api,
		logger:        logger,
		dialer:        websocket.DefaultDialer,
		streamReplies: true,
		reconnectBase: time.Second,
		notify:        func() {},
	}
}

// SetStreamReplies toggles whether outbound messages request streamed replies.
func (s *Streamer) SetStreamReplies(v bool) { s.streamReplies = v }

// SetNotify registers a callback fired after every externally visible state
// change, so the view can re-render. Must be set before Connect.
func (s *Streamer) SetNotify(fn func()) {
	if fn != nil {
		s.notify = fn
	}
}

// State reports the connection lifecycle.
func (s *Streamer) State() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect opens the socket. It is idempotent: a no-op while already open or
// opening.
func (s *Streamer) Connect() {
	s.mu.Lock()
	if s.closed || s.state != StateDisconnected {
		s.mu.Unlock()
		return
	}
	s.state = StateConnecting
	s.mu.Unlock()

	go s.dial()
}

func (s *Streamer) dial() {
	conn, _, err := s.dialer.Dial(s.wsURL, nil)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		s.state = StateDisconnected
		s.logger.Warn("chat socket dial failed", zap.Error(err))
		s.scheduleReconnectLocked()
		s.mu.Unlock()
		s.notify()
		return
	}

	s.conn = conn
	s.state = StateConnected
	s.attempts = 0
	s.mu.Unlock()

	s.logger.Info("chat socket connected", zap.String("url", s.wsURL))
	s.notify()

	go s.readLoop(conn)
}

func (s *Streamer) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("chat socket read failed", zap.Error(err))
			}
			s.handleDisconnect(conn)
			return
		}
		s.handleRaw(raw)
	}
}

// handleRaw parses one inbound frame. Malformed frames are logged and
// dropped, never fatal.
func (s *Streamer) handleRaw(raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.logger.Warn("malformed frame dropped", zap.Error(err))
		return
	}
	s.handleFrame(frame)
}

func (s *Streamer) handleFrame(frame Frame) {
	switch frame.Type {
	case frameGreeting:
		s.mu.Lock()
		s.greeted = true
		s.mu.Unlock()
		s.deliverAssistant(frame.Content, 100, sourceSystem)

	case frameStart:
		s.mu.Lock()
		s.streaming = true
		s.buffer.Reset()
		s.mu.Unlock()

		s.store.EnsureSession()
		s.store.BeginStreamingMessage()
		s.setStatus(chat.StatusSpeaking)

	case frameChunk:
		s.mu.Lock()
		if !s.streaming {
			s.mu.Unlock()
			s.logger.Warn("chunk frame outside stream dropped")
			return
		}
		s.buffer.WriteString(frame.Content)
		content := s.buffer.String()
		s.mu.Unlock()

		s.store.UpdateLastMessage(content, true)
		s.notify()

	case frameEnd:
		s.mu.Lock()
		if !s.streaming {
			s.mu.Unlock()
			s.logger.Warn("end frame outside stream dropped")
			return
		}
		final := frame.FullResponse
		if final == "" {
			final = s.buffer.String()
		}
		s.streaming = false
		s.buffer.Reset()
		s.mu.Unlock()

		ext := gesture.Extract(final)
		s.store.UpdateLastMessage(ext.CleanContent, false)
		s.setStatus(chat.StatusIdle)
		s.forwardGestures(ext.Gestures)

	case frameResponse:
		s.deliverAssistant(frame.Content, 95, sourceArchives)

	default:
		s.logger.Warn("unknown frame type dropped", zap.String("type", frame.Type))
	}
}

// SendMessage appends the user's turn and asks the backend for a reply over
// the socket, falling back to one-shot REST when disconnected. Blank input is
// ignored.
func (s *Streamer) SendMessage(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	s.store.EnsureSession()
	s.store.AddMessage(chat.RoleUser, text)
	s.setStatus(chat.StatusThinking)

	s.mu.Lock()
	conn := s.conn
	open := s.state == StateConnected
	s.mu.Unlock()

	if open && conn != nil {
		if err := conn.WriteJSON(outboundFrame{Message: text, Stream: s.streamReplies}); err != nil {
			// The read loop observes the broken socket and reconnects.
			s.logger.Warn("chat socket write failed", zap.Error(err))
		}
		return
	}

	go s.restFallback(text)
}

// greetingFallback fetches the connect-time greeting over REST when the
// socket never produced one.
func (s *Streamer) greetingFallback() {
	if s.api == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	greeting, err := s.api.Greeting(ctx)
	if err != nil {
		s.logger.Warn("rest greeting fallback failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	if s.greeted || s.closed {
		s.mu.Unlock()
		return
	}
	s.greeted = true
	s.mu.Unlock()

	s.deliverAssistant(greeting, 100, sourceSystem)
}

func (s *Streamer) restFallback(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := s.api.Chat(ctx, text)
	if err != nil {
		s.logger.Warn("rest chat fallback failed", zap.Error(err))
		s.store.AddAssistantMessage(errorReplyText, 0, "")
		s.setStatus(chat.StatusIdle)
		return
	}

	s.deliverAssistant(resp.Response, 95, sourceArchives)
}

// deliverAssistant strips stage directions, appends the assistant turn,
// returns the status to idle and then feeds the gestures to the mood engine
// in order. Gestures come last so a cue can shade the freshly synced mood.
func (s *Streamer) deliverAssistant(content string, confidence int, source string) {
	ext := gesture.Extract(content)
	s.store.EnsureSession()
	s.store.AddAssistantMessage(ext.CleanContent, confidence, source)
	s.setStatus(chat.StatusIdle)
	s.forwardGestures(ext.Gestures)
}

func (s *Streamer) forwardGestures(gestures []string) {
	for _, g := range gestures {
		s.mood.SetGesture(g)
	}
}

func (s *Streamer) setStatus(status chat.Status) {
	s.store.SetStatus(status)
	s.mood.SyncWithChatStatus(status)
	s.notify()
}

func (s *Streamer) handleDisconnect(conn *websocket.Conn) {
	conn.Close()

	s.mu.Lock()
	if s.conn != conn {
		// A newer connection already replaced this one.
		s.mu.Unlock()
		return
	}
	s.conn = nil
	s.state = StateDisconnected
	s.streaming = false
	s.buffer.Reset()
	if !s.closed {
		s.scheduleReconnectLocked()
	}
	s.mu.Unlock()

	s.logger.Info("chat socket disconnected")
	s.setStatus(chat.StatusIdle)
}

// scheduleReconnectLocked retries with linear backoff: 1s, 2s, ... 5s, then
// gives up for good. The disconnected indicator is the only surfaced signal.
func (s *Streamer) scheduleReconnectLocked() {
	if s.attempts >= maxReconnectAttempts {
		s.logger.Warn("reconnect attempts exhausted, giving up")
		if !s.greeted {
			go s.greetingFallback()
		}
		return
	}
	s.attempts++
	delay := time.Duration(s.attempts) * s.reconnectBase
	s.reconnectTimer = time.AfterFunc(delay, s.Connect)
}

// Reconnect is the user-initiated retry: it forgets the exhausted backoff
// counter and dials again.
func (s *Streamer) Reconnect() {
	s.mu.Lock()
	s.attempts = 0
	if s.reconnectTimer != nil {
		s.reconnectTimer.Stop()
		s.reconnectTimer = nil
	}
	s.mu.Unlock()
	s.Connect()
}

// Close tears the socket down for good: no reconnects, no callbacks after
// return.
func (s *Streamer) Close() {
	s.mu.Lock()
	s.closed = true
	if s.reconnectTimer != nil {
		s.reconnectTimer.Stop()
		s.reconnectTimer = nil
	}
	conn := s.conn
	s.conn = nil
	s.state = StateDisconnected
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

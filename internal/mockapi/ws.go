package mockapi

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// wsFrame is the socket protocol spoken to the client.
type wsFrame struct {
	Type         string `json:"type"`
	Content      string `json:"content,omitempty"`
	FullResponse string `json:"full_response,omitempty"`
}

type wsInbound struct {
	Message string `json:"message"`
	Stream  bool   `json:"stream"`
}

// WSHandler serves the chat socket. Each connection gets a greeting frame,
// then answers inbound messages with either a start/chunk/end sequence or a
// single response frame.
type WSHandler struct {
	handler  *Handler
	upgrader websocket.Upgrader

	// chunkDelay paces streamed chunks so the client's typing effect is
	// visible. Zero in tests.
	chunkDelay time.Duration
}

// NewWSHandler builds the socket handler on top of the REST state.
func NewWSHandler(handler *Handler) *WSHandler {
	return &WSHandler{
		handler: handler,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		chunkDelay: 30 * time.Millisecond,
	}
}

// RegisterWebSocketRoutes attaches the chat socket route.
func (h *WSHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/chat", h.handleWebSocket)
}

func (h *WSHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	h.handler.mu.Lock()
	greeting := h.handler.responder.Greeting(h.handler.personality.Humor, h.handler.personality.Honesty)
	h.handler.mu.Unlock()

	if err := conn.WriteJSON(wsFrame{Type: "greeting", Content: greeting}); err != nil {
		log.Printf("[ws] greeting write failed: %v", err)
		return
	}

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}
		if in.Message == "" {
			continue
		}

		reply := h.handler.recordExchange(in.Message)

		if in.Stream {
			if err := h.streamReply(conn, reply); err != nil {
				log.Printf("[ws] stream write failed: %v", err)
				return
			}
			continue
		}

		if err := conn.WriteJSON(wsFrame{Type: "response", Content: reply}); err != nil {
			log.Printf("[ws] response write failed: %v", err)
			return
		}
	}
}

func (h *WSHandler) streamReply(conn *websocket.Conn, reply string) error {
	if err := conn.WriteJSON(wsFrame{Type: "start"}); err != nil {
		return err
	}
	for _, chunk := range Chunks(reply) {
		if err := conn.WriteJSON(wsFrame{Type: "chunk", Content: chunk}); err != nil {
			return err
		}
		if h.chunkDelay > 0 {
			time.Sleep(h.chunkDelay)
		}
	}
	return conn.WriteJSON(wsFrame{Type: "end", FullResponse: reply})
}

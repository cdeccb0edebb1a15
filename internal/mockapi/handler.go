package mockapi

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tarsterm/internal/model/settings"
	"tarsterm/pkg/utils"
)

// Handler serves the TARS backend's REST surface with canned responses and
// in-memory state. It exists so the terminal client can be developed and
// tested offline; the real backend is a separate system.
type Handler struct {
	responder *Responder

	mu             sync.Mutex
	personality    settings.Personality
	history        []historyEntry
	conversationID string
}

type historyEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewHandler seeds the mock backend with default settings.
func NewHandler(responder *Responder) *Handler {
	return &Handler{
		responder:      responder,
		personality:    settings.Default(),
		conversationID: uuid.NewString(),
	}
}

// RegisterRoutes attaches the REST endpoints under /api.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/greeting", h.handleGreeting)
	r.Get("/settings", h.handleGetSettings)
	r.Put("/settings", h.handlePutSettings)
	r.Get("/history", h.handleGetHistory)
	r.Delete("/history", h.handleClearHistory)
	r.Get("/rag/stats", h.handleRAGStats)
	r.Post("/rag/search", h.handleRAGSearch)
}

type chatRequest struct {
	Message         string `json:"message"`
	EnhanceResponse bool   `json:"enhance_response"`
	Stream          bool   `json:"stream"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply := h.recordExchange(req.Message)

	if req.Stream {
		h.streamChat(w, reply)
		return
	}

	h.mu.Lock()
	conversationID := h.conversationID
	h.mu.Unlock()

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"response":        reply,
		"conversation_id": conversationID,
	})
}

// streamChat mirrors the real backend's SSE mode: raw chunk data lines, then
// a [DONE] sentinel.
func (h *Handler) streamChat(w http.ResponseWriter, reply string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	for _, chunk := range Chunks(reply) {
		utils.SendSSEChunk(w, flusher, chunk)
	}
	utils.SendSSEChunk(w, flusher, "[DONE]")
}

func (h *Handler) recordExchange(message string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	reply := h.responder.Reply(message, h.personality.Humor)
	now := time.Now().UTC()
	h.history = append(h.history,
		historyEntry{Role: "user", Content: message, Timestamp: now},
		historyEntry{Role: "assistant", Content: reply, Timestamp: now},
	)
	return reply
}

func (h *Handler) handleGreeting(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	greeting := h.responder.Greeting(h.personality.Humor, h.personality.Honesty)
	h.mu.Unlock()

	utils.RespondJSON(w, http.StatusOK, map[string]string{"greeting": greeting})
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	p := h.personality
	h.mu.Unlock()

	utils.RespondJSON(w, http.StatusOK, p)
}

// settingsPatch applies only the fields the caller sent.
type settingsPatch struct {
	Humor         *int `json:"humor"`
	Honesty       *int `json:"honesty"`
	Discretion    *int `json:"discretion"`
	ResponseSpeed *int `json:"responseSpeed"`
	Verbosity     *int `json:"verbosity"`
	CautionLevel  *int `json:"cautionLevel"`
	TrustLevel    *int `json:"trustLevel"`
}

func (h *Handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var patch settingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mu.Lock()
	applyPatch(&h.personality, patch)
	h.personality = h.personality.Clamp()
	p := h.personality
	h.mu.Unlock()

	log.Printf("[settings] updated humor=%d honesty=%d discretion=%d", p.Humor, p.Honesty, p.Discretion)
	utils.RespondJSON(w, http.StatusOK, p)
}

func applyPatch(p *settings.Personality, patch settingsPatch) {
	if patch.Humor != nil {
		p.Humor = *patch.Humor
	}
	if patch.Honesty != nil {
		p.Honesty = *patch.Honesty
	}
	if patch.Discretion != nil {
		p.Discretion = *patch.Discretion
	}
	if patch.ResponseSpeed != nil {
		p.ResponseSpeed = *patch.ResponseSpeed
	}
	if patch.Verbosity != nil {
		p.Verbosity = *patch.Verbosity
	}
	if patch.CautionLevel != nil {
		p.CautionLevel = *patch.CautionLevel
	}
	if patch.TrustLevel != nil {
		p.TrustLevel = *patch.TrustLevel
	}
}

func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	entries := append([]historyEntry(nil), h.history...)
	conversationID := h.conversationID
	h.mu.Unlock()

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"messages":        entries,
		"count":           len(entries),
	})
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.history = nil
	h.conversationID = uuid.NewString()
	h.mu.Unlock()

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Conversation history cleared",
		"status":  "success",
	})
}

func (h *Handler) handleRAGStats(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"total_documents":     128,
		"loaded_datasets":     3,
		"topics":              []string{"mission", "physics", "personality"},
		"embedding_model":     "mock-embedder",
		"embedding_dimension": 384,
	})
}

func (h *Handler) handleRAGSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		utils.RespondError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"query":   query,
		"results": "Mock archive passage about: " + query,
	})
}

// HandleHealth reports the stand-in's health, shaped like the real backend's.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":        "operational",
		"llm_provider":  "canned",
		"rag_enabled":   true,
		"voice_enabled": false,
	})
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tarsterm/internal/model/settings"
)

// API is the REST side of the backend: one-shot chat, settings, history, RAG
// search and health. The streaming socket lives in Streamer.
type API struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAPI builds a REST client for the given base URL.
func NewAPI(baseURL string, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// ChatRequest is the one-shot chat payload.
type ChatRequest struct {
	Message         string `json:"message"`
	EnhanceResponse bool   `json:"enhance_response"`
	Stream          bool   `json:"stream"`
}

// ChatResponse is the backend's one-shot reply.
type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// Chat sends a one-shot (non-streamed) chat request.
func (a *API) Chat(ctx context.Context, message string) (ChatResponse, error) {
	var out ChatResponse
	err := a.doJSON(ctx, http.MethodPost, "/api/chat", ChatRequest{
		Message:         message,
		EnhanceResponse: true,
		Stream:          false,
	}, &out)
	return out, err
}

// Greeting fetches a fresh TARS greeting.
func (a *API) Greeting(ctx context.Context) (string, error) {
	var out struct {
		Greeting string `json:"greeting"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/api/chat/greeting", nil, &out); err != nil {
		return "", err
	}
	return out.Greeting, nil
}

// GetSettings reads the backend's personality scalars.
func (a *API) GetSettings(ctx context.Context) (settings.Personality, error) {
	var out settings.Personality
	err := a.doJSON(ctx, http.MethodGet, "/api/settings", nil, &out)
	return out, err
}

// SettingsPatch carries the three scalars the backend actually consumes.
type SettingsPatch struct {
	Humor      int `json:"humor"`
	Honesty    int `json:"honesty"`
	Discretion int `json:"discretion"`
}

// PutSettings pushes personality scalars to the backend.
func (a *API) PutSettings(ctx context.Context, patch SettingsPatch) error {
	return a.doJSON(ctx, http.MethodPut, "/api/settings", patch, nil)
}

// HistoryResponse is the backend-side conversation history.
type HistoryResponse struct {
	ConversationID string           `json:"conversation_id"`
	Messages       []map[string]any `json:"messages"`
	Count          int              `json:"count"`
}

// History reads the backend's conversation history.
func (a *API) History(ctx context.Context) (HistoryResponse, error) {
	var out HistoryResponse
	err := a.doJSON(ctx, http.MethodGet, "/api/history", nil, &out)
	return out, err
}

// ClearHistory wipes the backend's conversation history.
func (a *API) ClearHistory(ctx context.Context) error {
	return a.doJSON(ctx, http.MethodDelete, "/api/history", nil, nil)
}

// RAGStats describes the backend's knowledge base.
type RAGStats struct {
	TotalDocuments     int      `json:"total_documents"`
	LoadedDatasets     int      `json:"loaded_datasets"`
	Topics             []string `json:"topics"`
	EmbeddingModel     string   `json:"embedding_model"`
	EmbeddingDimension int      `json:"embedding_dimension"`
}

// RAGStatsInfo fetches knowledge-base statistics.
func (a *API) RAGStatsInfo(ctx context.Context) (RAGStats, error) {
	var out RAGStats
	err := a.doJSON(ctx, http.MethodGet, "/api/rag/stats", nil, &out)
	return out, err
}

// RAGSearchResult is one retrieved passage.
type RAGSearchResult struct {
	Query   string `json:"query"`
	Results string `json:"results"`
}

// RAGSearch queries the knowledge base.
func (a *API) RAGSearch(ctx context.Context, query string, nResults int) (RAGSearchResult, error) {
	path := "/api/rag/search?query=" + url.QueryEscape(query) + "&n_results=" + strconv.Itoa(nResults)
	var out RAGSearchResult
	err := a.doJSON(ctx, http.MethodPost, path, nil, &out)
	return out, err
}

// Health is the backend's health report.
type Health struct {
	Status       string `json:"status"`
	LLMProvider  string `json:"llm_provider"`
	RAGEnabled   bool   `json:"rag_enabled"`
	VoiceEnabled bool   `json:"voice_enabled"`
}

// HealthCheck pings the backend.
func (a *API) HealthCheck(ctx context.Context) (Health, error) {
	var out Health
	err := a.doJSON(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

func (a *API) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

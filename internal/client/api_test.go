package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChatPostsExpectedPayload(t *testing.T) {
	var got ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"ok"}`))
	}))
	defer server.Close()

	api := NewAPI(server.URL, nil)
	resp, err := api.Chat(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Chat err: %v", err)
	}
	if resp.Response != "ok" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if got.Message != "hello" || !got.EnhanceResponse || got.Stream {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestRAGSearchEncodesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rag/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("query"); q != "black holes" {
			t.Errorf("unexpected query: %q", q)
		}
		if n := r.URL.Query().Get("n_results"); n != "5" {
			t.Errorf("unexpected n_results: %q", n)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"query":"black holes","results":"Gargantua facts"}`))
	}))
	defer server.Close()

	api := NewAPI(server.URL, nil)
	out, err := api.RAGSearch(context.Background(), "black holes", 5)
	if err != nil {
		t.Fatalf("RAGSearch err: %v", err)
	}
	if out.Results != "Gargantua facts" {
		t.Fatalf("unexpected results: %+v", out)
	}
}

func TestNonSuccessStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	api := NewAPI(server.URL, nil)
	if _, err := api.Greeting(context.Background()); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestClearHistory(t *testing.T) {
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"cleared","status":"success"}`))
	}))
	defer server.Close()

	api := NewAPI(server.URL, nil)
	if err := api.ClearHistory(context.Background()); err != nil {
		t.Fatalf("ClearHistory err: %v", err)
	}
	if method != http.MethodDelete || path != "/api/history" {
		t.Fatalf("unexpected request: %s %s", method, path)
	}
}

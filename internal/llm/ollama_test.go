package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProvider_Rewrite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("expected /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "llama3" {
			t.Errorf("expected model llama3, got %s", req.Model)
		}
		if req.Stream {
			t.Error("streaming must be disabled")
		}
		if req.System == "" {
			t.Error("system prompt should be forwarded")
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:           "llama3",
			Response:        "Thân bài mới gọn hơn.",
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       5,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	resp, err := provider.Rewrite(context.Background(), RewriteRequest{
		System: "quy tắc",
		Prompt: "viết lại",
	})
	if err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	if resp.Text != "Thân bài mới gọn hơn." {
		t.Errorf("text mismatch: %q", resp.Text)
	}
	if resp.TokensUsed != 15 {
		t.Errorf("expected 15 tokens, got %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ollamaError{Error: "model not found"})
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL, Model: "missing"})

	_, err := provider.Rewrite(context.Background(), RewriteRequest{Prompt: "sửa"})
	if err == nil {
		t.Fatal("expected API error")
	}
}

func TestOllamaProvider_RequiresModel(t *testing.T) {
	provider, _ := NewOllamaProvider(Config{BaseURL: "http://localhost:11434"})

	_, err := provider.Rewrite(context.Background(), RewriteRequest{Prompt: "sửa"})
	if err == nil {
		t.Fatal("missing model name should fail before any network call")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("expected /api/tags, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL})
	if !provider.IsAvailable(context.Background()) {
		t.Error("running server should be available")
	}

	server.Close()
	if provider.IsAvailable(context.Background()) {
		t.Error("stopped server should be unavailable")
	}
}

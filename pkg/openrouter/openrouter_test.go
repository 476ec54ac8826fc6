package openrouter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nutrition-assistant/pkg/openrouter"
)

func TestClient_GenerateContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": {"message": "invalid key"}}`))
			return
		}

		var req openrouter.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Model != "test-model" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Write([]byte(`{
			"id": "gen-1",
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Eat more greens."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14}
		}`))
	}))
	defer ts.Close()

	t.Run("Success Flow", func(t *testing.T) {
		client, err := openrouter.New(openrouter.Config{APIKey: "test-key", Model: "test-model", BaseURL: ts.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		resp, err := client.GenerateContent(context.Background(), &openrouter.Request{
			Messages: []openrouter.Message{{Role: "user", Content: "hi"}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Choices) != 1 || resp.Choices[0].Message.Content != "Eat more greens." {
			t.Errorf("unexpected response: %+v", resp)
		}
		if resp.Usage.TotalTokens != 14 {
			t.Errorf("expected 14 tokens, got %d", resp.Usage.TotalTokens)
		}
	})

	t.Run("API Error Flow", func(t *testing.T) {
		client, _ := openrouter.New(openrouter.Config{APIKey: "wrong", Model: "test-model", BaseURL: ts.URL})

		_, err := client.GenerateContent(context.Background(), &openrouter.Request{
			Messages: []openrouter.Message{{Role: "user", Content: "hi"}},
		})
		if err == nil || !strings.Contains(err.Error(), "invalid key") {
			t.Fatalf("expected invalid key error, got %v", err)
		}
	})

	t.Run("Missing API Key", func(t *testing.T) {
		if _, err := openrouter.New(openrouter.Config{}); err == nil {
			t.Fatal("expected error")
		}
	})
}

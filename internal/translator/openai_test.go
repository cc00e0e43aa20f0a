package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOpenAIGateway_Complete(t *testing.T) {
	var gotAuth, gotPrompt string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if len(req.Messages) == 1 {
			gotPrompt = req.Messages[0].Content
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "translated text"}},
			},
		})
	}))
	defer server.Close()

	g := NewOpenAIGateway("test-key", server.URL, "", 5*time.Second)

	c, err := g.Complete(context.Background(), "translate this")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if c.Kind != Text {
		t.Errorf("expected Text completion, got kind %d", c.Kind)
	}
	if c.Output() != "translated text" {
		t.Errorf("unexpected output %q", c.Output())
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotPrompt != "translate this" {
		t.Errorf("prompt not sent verbatim: %q", gotPrompt)
	}
}

func TestOpenAIGateway_Complete_UnrecognizedShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"something":"else"}`))
	}))
	defer server.Close()

	g := NewOpenAIGateway("k", server.URL, "", 5*time.Second)

	c, err := g.Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != Unrecognized {
		t.Error("expected Unrecognized completion for unexpected shape")
	}
	if !strings.Contains(c.Output(), "something") {
		t.Errorf("raw body not preserved: %q", c.Output())
	}
}

func TestOpenAIGateway_Complete_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	g := NewOpenAIGateway("k", server.URL, "", 5*time.Second)

	if _, err := g.Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestOpenAIGateway_Defaults(t *testing.T) {
	g := NewOpenAIGateway("k", "", "", 0)
	if g.baseURL != "https://api.openai.com/v1" {
		t.Errorf("unexpected default base URL %q", g.baseURL)
	}
	if g.model != DefaultModel {
		t.Errorf("unexpected default model %q", g.model)
	}
	if g.Name() != "openai" {
		t.Errorf("unexpected name %q", g.Name())
	}
}

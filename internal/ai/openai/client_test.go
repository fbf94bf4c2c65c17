package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"resume-builder/internal/ai"
)

func TestIsReasoningModel(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  bool
	}{
		{name: "gpt5", model: "gpt-5", want: true},
		{name: "gpt5 variant", model: "gpt-5-mini", want: true},
		{name: "gpt5 uppercase", model: " GPT-5o ", want: true},
		{name: "o3", model: "o3-mini", want: true},
		{name: "gpt4", model: "gpt-4o", want: false},
		{name: "empty", model: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isReasoningModel(tt.model); got != tt.want {
				t.Fatalf("isReasoningModel(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, model string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Config{APIKey: "test-key", Model: model, BaseURL: server.URL, Temperature: 0.3, MaxTokens: 1024})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestCompleteSendsSystemAndUserMessages(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer key")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" {\"score\":81} "}}]}`))
	}, "gpt-4o-mini")

	out, err := client.Complete(context.Background(), ai.Prompt{System: "sys", User: "usr"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"score":81}` {
		t.Fatalf("unexpected content %q", out)
	}

	messages, _ := got["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %v", got["messages"])
	}
	if first := messages[0].(map[string]any); first["role"] != "system" || first["content"] != "sys" {
		t.Fatalf("unexpected system message %v", first)
	}
	if _, ok := got["temperature"]; !ok {
		t.Fatalf("expected temperature for gpt-4o-mini")
	}
	if got["max_tokens"] != float64(1024) {
		t.Fatalf("expected max_tokens 1024, got %v", got["max_tokens"])
	}
}

func TestCompleteOmitsTemperatureForReasoningModels(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	}, "gpt-4o-mini")

	if _, err := client.Complete(context.Background(), ai.Prompt{User: "u", ModelHint: "gpt-5-mini"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got["model"] != "gpt-5-mini" {
		t.Fatalf("expected model hint to win, got %v", got["model"])
	}
	if _, ok := got["temperature"]; ok {
		t.Fatalf("expected temperature to be omitted")
	}
	if got["max_completion_tokens"] != float64(1024) {
		t.Fatalf("expected max_completion_tokens, got %v", got["max_completion_tokens"])
	}
}

func TestCompleteDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}, "")

	_, err := client.Complete(context.Background(), ai.Prompt{User: "u"})
	if err == nil || !strings.Contains(err.Error(), "openai http status 429") {
		t.Fatalf("expected status error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one call, got %d", calls.Load())
	}
}

func TestCompleteErrors(t *testing.T) {
	tests := map[string]string{
		"no choices":    `{"choices":[]}`,
		"empty content": `{"choices":[{"message":{"content":"   "}}]}`,
		"api error":     `{"error":{"message":"bad key","type":"auth"}}`,
		"not json":      `<html>`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}, "")
			if _, err := client.Complete(context.Background(), ai.Prompt{User: "u"}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatalf("expected missing key error")
	}
}

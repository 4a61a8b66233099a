package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterLLMMetrics()
	os.Exit(m.Run())
}

func chatResponse(content string, prompt, completion int) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{
			"prompt_tokens":     prompt,
			"completion_tokens": completion,
			"total_tokens":      prompt + completion,
		},
	}
}

func newTestNarrator(url string) *Narrator {
	return NewNarrator(&Config{
		APIKey:    "test-key",
		BaseURL:   url,
		Model:     "test-model",
		MaxTokens: 256,
		Provider:  "test",
		Logger:    zap.NewNop(),
	})
}

func TestNarrator_Complete(t *testing.T) {
	var got openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse("Trois sujets pertinents.", 40, 10))
	}))
	defer server.Close()

	before := testutil.ToFloat64(metrics.LLMRequestsTotal.WithLabelValues("test", "test-model", "success"))

	n := newTestNarrator(server.URL)
	c, err := n.Complete(context.Background(), domain.Prompt{System: "sys", User: "ia image"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if c.Text != "Trois sujets pertinents." {
		t.Errorf("Text = %q", c.Text)
	}
	if c.PromptTokens != 40 || c.CompletionTokens != 10 || c.TotalTokens != 50 {
		t.Errorf("usage = %+v", c)
	}

	if got.Model != "test-model" || got.MaxTokens != 256 {
		t.Errorf("request model=%q max_tokens=%d", got.Model, got.MaxTokens)
	}
	if len(got.Messages) != 2 ||
		got.Messages[0].Role != openai.ChatMessageRoleSystem ||
		got.Messages[1].Content != "ia image" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}

	after := testutil.ToFloat64(metrics.LLMRequestsTotal.WithLabelValues("test", "test-model", "success"))
	if after-before != 1 {
		t.Errorf("success counter delta = %v, want 1", after-before)
	}
}

func TestNarrator_NoSystemPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 1 || req.Messages[0].Role != openai.ChatMessageRoleUser {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse("ok", 1, 1))
	}))
	defer server.Close()

	if _, err := newTestNarrator(server.URL).Complete(context.Background(), domain.Prompt{User: "q"}); err != nil {
		t.Fatal(err)
	}
}

func TestNarrator_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse("", 5, 0))
	}))
	defer server.Close()

	_, err := newTestNarrator(server.URL).Complete(context.Background(), domain.Prompt{User: "q"})
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("expected ErrLLMProviderError, got %v", err)
	}
}

func TestNarrator_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	_, err := newTestNarrator(server.URL).Complete(context.Background(), domain.Prompt{User: "q"})
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("expected ErrLLMProviderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("error should carry the API message: %v", err)
	}
}

func TestNarrator_HealthCheck(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{}})
	}))
	defer server.Close()

	n := newTestNarrator(server.URL)
	if err := n.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	healthy.Store(false)
	if err := n.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error from unavailable provider")
	}
}

func TestParseAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "request error with detail",
			err:  &openai.RequestError{HTTPStatusCode: 400, Body: []byte(`{"detail":"model not found"}`)},
			want: "chat API error 400: model not found",
		},
		{
			name: "request error raw body",
			err:  &openai.RequestError{HTTPStatusCode: 502, Body: []byte("bad gateway")},
			want: "chat API error 502: bad gateway",
		},
		{
			name: "api error",
			err:  &openai.APIError{HTTPStatusCode: 401, Message: "invalid key"},
			want: "chat API error 401: invalid key",
		},
		{
			name: "other",
			err:  errors.New("dial tcp: refused"),
			want: "chat request failed",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := parseAPIError(tc.err)
			if !errors.Is(err, domain.ErrLLMProviderError) {
				t.Errorf("expected ErrLLMProviderError wrap, got %v", err)
			}
			if !strings.HasPrefix(err.Error(), tc.want) {
				t.Errorf("error = %q, want prefix %q", err.Error(), tc.want)
			}
		})
	}
}

package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clozesmith/config"
	"clozesmith/web/types"

	"go.uber.org/zap"
)

func testConfig(host string) *config.Config {
	return &config.Config{
		LLMHost:               host,
		LLMRequestTimeout:     5 * time.Second,
		MaxRetries:            3,
		RetryDelaySeconds:     time.Millisecond,
		LLMBackoffMaxSeconds:  5 * time.Millisecond,
		LLMBackoffJitterRatio: 0.1,
	}
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func TestChat(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("request path = %q, want /v1/chat/completions", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(completionBody("{{c1::answer}}")))
	}))
	defer server.Close()

	client := New(testConfig(server.URL), zap.NewNop())
	temp := 0.3
	got, err := client.Chat(context.Background(), "test-model",
		[]types.ChatMessage{{Role: "user", Content: "hello"}}, &temp)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if got != "{{c1::answer}}" {
		t.Errorf("Chat() = %q, want %q", got, "{{c1::answer}}")
	}
	if gotReq.Model != "test-model" || gotReq.Stream {
		t.Errorf("request sent = %+v, want model test-model non-streaming", gotReq)
	}
	if gotReq.Temperature == nil || *gotReq.Temperature != 0.3 {
		t.Errorf("temperature not forwarded: %+v", gotReq.Temperature)
	}
}

func TestChatRetriesOnUnavailable(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(completionBody("ok")))
	}))
	defer server.Close()

	client := New(testConfig(server.URL), zap.NewNop())
	got, err := client.Chat(context.Background(), "", []types.ChatMessage{{Role: "user", Content: "x"}}, nil)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Chat() = %q, want %q", got, "ok")
	}
	if calls != 2 {
		t.Errorf("server saw %d calls, want 2", calls)
	}
}

func TestChatContextWindowExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": "context_length_exceeded"}}`))
	}))
	defer server.Close()

	client := New(testConfig(server.URL), zap.NewNop())
	_, err := client.Chat(context.Background(), "", []types.ChatMessage{{Role: "user", Content: "x"}}, nil)
	if !errors.Is(err, ErrContextWindowExceeded) {
		t.Errorf("Chat() error = %v, want ErrContextWindowExceeded", err)
	}
}

func TestChatExhaustsRetries(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(testConfig(server.URL), zap.NewNop())
	_, err := client.Chat(context.Background(), "", []types.ChatMessage{{Role: "user", Content: "x"}}, nil)
	if err == nil {
		t.Fatalf("Chat() expected error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("server saw %d calls, want 3", calls)
	}
}

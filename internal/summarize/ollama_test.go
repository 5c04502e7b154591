package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChatNonStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("expected non-streaming request")
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": "  Resumen del capítulo.  "},
			"done":    true,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	defer c.Close()

	got, err := c.Chat(context.Background(), "sistema", "prompt", Options{NumCtx: 1024}, false, nil)
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if got != "Resumen del capítulo." {
		t.Errorf("Chat() = %q", got)
	}
}

func TestChatStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if !req.Stream {
			t.Error("expected streaming request")
		}
		for _, tok := range []string{"Resumen ", "en ", "partes."} {
			fmt.Fprintf(w, `{"message":{"content":%q},"done":false}`+"\n", tok)
		}
		fmt.Fprintln(w, `{"message":{"content":""},"done":true}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	defer c.Close()

	var streamed strings.Builder
	got, err := c.Chat(context.Background(), "sistema", "prompt", Options{}, true, func(tok string) {
		streamed.WriteString(tok)
	})
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if got != "Resumen en partes." {
		t.Errorf("Chat() = %q", got)
	}
	if streamed.String() != "Resumen en partes." {
		t.Errorf("streamed tokens = %q", streamed.String())
	}
}

func TestChatRetryableStatus(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := NewClient(srv.URL, "test-model")
		_, err := c.Chat(context.Background(), "s", "p", Options{}, false, nil)
		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		if !IsRetryable(err) {
			t.Errorf("status %d: error not retryable: %v", status, err)
		}
		c.Close()
		srv.Close()
	}
}

func TestChatClientErrorNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	defer c.Close()

	_, err := c.Chat(context.Background(), "s", "p", Options{}, false, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if IsRetryable(err) {
		t.Errorf("4xx error must not be retryable: %v", err)
	}
}

func TestChatAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "out of memory"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	defer c.Close()

	_, err := c.Chat(context.Background(), "s", "p", Options{}, false, nil)
	if err == nil || !strings.Contains(err.Error(), "out of memory") {
		t.Errorf("Chat() error = %v, want ollama error surfaced", err)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&RetryableError{StatusCode: 500}) {
		t.Error("RetryableError not detected")
	}
	if !IsRetryable(fmt.Errorf("wrapped: %w", &RetryableError{StatusCode: 429})) {
		t.Error("wrapped RetryableError not detected")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error reported retryable")
	}
}

func TestBackoffBounds(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		d := Backoff(attempt)
		if d <= 0 {
			t.Errorf("Backoff(%d) = %v, want positive", attempt, d)
		}
		if d.Seconds() > 45 {
			t.Errorf("Backoff(%d) = %v, want capped near 30s", attempt, d)
		}
	}
}

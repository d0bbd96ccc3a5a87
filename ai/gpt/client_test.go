package gpt

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstroBot/internal/config"
)

// providerStub mimics the completion provider: a scripted chat endpoint
// and a responses endpoint for the fallback path.
type providerStub struct {
	mu            sync.Mutex
	chatCalls     int
	fallbackCalls int

	chatHandler     func(call int, w http.ResponseWriter)
	fallbackHandler func(w http.ResponseWriter)
}

func (p *providerStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch r.URL.Path {
	case "/v1/chat/completions":
		p.chatCalls++
		p.chatHandler(p.chatCalls, w)
	case "/v1/responses":
		p.fallbackCalls++
		if p.fallbackHandler != nil {
			p.fallbackHandler(w)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func chatReply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": text,
				},
			},
		},
	})
}

func fallbackReply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id": "resp_1",
		"output": []map[string]any{
			{
				"type": "message",
				"role": "assistant",
				"content": []map[string]any{
					{"type": "output_text", "text": text},
				},
			},
		},
	})
}

func newTestClient(t *testing.T, stub *providerStub) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	conf := &config.Config{}
	conf.OpenAI.ApiKey = "test-key"
	conf.OpenAI.BaseURL = server.URL + "/v1"
	conf.OpenAI.Model = "gpt-4o"
	conf.OpenAI.FallbackModel = "gpt-4o-mini"
	conf.OpenAI.MaxTokens = 200

	c := New(conf, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.attemptTimeout = 2 * time.Second
	c.backoff = []time.Duration{time.Millisecond, time.Millisecond}
	return c, server
}

func TestCompleteFirstAttemptSucceeds(t *testing.T) {
	stub := &providerStub{
		chatHandler: func(call int, w http.ResponseWriter) {
			chatReply(w, "звёзды благосклонны")
		},
	}
	c, _ := newTestClient(t, stub)

	text, err := c.Complete(context.Background(), "гороскоп")
	require.NoError(t, err)
	assert.Equal(t, "звёзды благосклонны", text)
	assert.Equal(t, 1, stub.chatCalls)
	assert.Equal(t, 0, stub.fallbackCalls)
}

func TestCompleteRetriesTransientFailures(t *testing.T) {
	stub := &providerStub{
		chatHandler: func(call int, w http.ResponseWriter) {
			if call < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			chatReply(w, "с третьей попытки")
		},
	}
	c, _ := newTestClient(t, stub)

	text, err := c.Complete(context.Background(), "гороскоп")
	require.NoError(t, err)
	assert.Equal(t, "с третьей попытки", text)
	assert.Equal(t, 3, stub.chatCalls)
	assert.Equal(t, 0, stub.fallbackCalls)
}

func TestCompleteAuthErrorShortCircuits(t *testing.T) {
	stub := &providerStub{
		chatHandler: func(call int, w http.ResponseWriter) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
		},
	}
	c, _ := newTestClient(t, stub)

	_, err := c.Complete(context.Background(), "гороскоп")
	require.Error(t, err)
	assert.Equal(t, 1, stub.chatCalls)
	assert.Equal(t, 0, stub.fallbackCalls)
}

func TestCompleteFallsBackAfterExhaustedAttempts(t *testing.T) {
	stub := &providerStub{
		chatHandler: func(call int, w http.ResponseWriter) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		fallbackHandler: func(w http.ResponseWriter) {
			fallbackReply(w, "запасной канал")
		},
	}
	c, _ := newTestClient(t, stub)

	text, err := c.Complete(context.Background(), "гороскоп")
	require.NoError(t, err)
	assert.Equal(t, "запасной канал", text)
	assert.Equal(t, 3, stub.chatCalls)
	assert.Equal(t, 1, stub.fallbackCalls)
}

func TestCompleteEmptyTextIsRetried(t *testing.T) {
	stub := &providerStub{
		chatHandler: func(call int, w http.ResponseWriter) {
			if call < 2 {
				chatReply(w, "")
				return
			}
			chatReply(w, "не пусто")
		},
	}
	c, _ := newTestClient(t, stub)

	text, err := c.Complete(context.Background(), "гороскоп")
	require.NoError(t, err)
	assert.Equal(t, "не пусто", text)
	assert.Equal(t, 2, stub.chatCalls)
}

func TestCompleteFailsWhenFallbackFails(t *testing.T) {
	stub := &providerStub{
		chatHandler: func(call int, w http.ResponseWriter) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	}
	c, _ := newTestClient(t, stub)

	_, err := c.Complete(context.Background(), "гороскоп")
	require.Error(t, err)
	assert.Equal(t, 3, stub.chatCalls)
	assert.Equal(t, 1, stub.fallbackCalls)
}

func TestCompleteFailsOnEmptyFallbackText(t *testing.T) {
	stub := &providerStub{
		chatHandler: func(call int, w http.ResponseWriter) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		fallbackHandler: func(w http.ResponseWriter) {
			fallbackReply(w, "")
		},
	}
	c, _ := newTestClient(t, stub)

	_, err := c.Complete(context.Background(), "гороскоп")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no output")
}

func TestCompleteHonorsContextCancellation(t *testing.T) {
	stub := &providerStub{
		chatHandler: func(call int, w http.ResponseWriter) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	}
	c, _ := newTestClient(t, stub)
	c.backoff = []time.Duration{time.Minute, time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Complete(ctx, "гороскоп")
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
}

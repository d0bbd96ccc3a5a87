package gpt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"AstroBot/internal/config"
	"AstroBot/internal/lib/sl"
)

const maxAttempts = 3

// Client turns a prompt into generated text, tolerating transient provider
// failures: up to three primary attempts with exponential backoff, then a
// single fallback call over the raw Responses API. Safe for concurrent use.
type Client struct {
	api            *openai.Client
	http           *http.Client
	apiKey         string
	baseURL        string
	model          string
	fallbackModel  string
	maxTokens      int
	attemptTimeout time.Duration
	backoff        []time.Duration
	log            *slog.Logger
}

// New creates a completion client from the OpenAI config section.
func New(conf *config.Config, log *slog.Logger) *Client {
	cfg := openai.DefaultConfig(conf.OpenAI.ApiKey)
	if conf.OpenAI.BaseURL != "" {
		cfg.BaseURL = conf.OpenAI.BaseURL
	}

	return &Client{
		api:            openai.NewClientWithConfig(cfg),
		http:           &http.Client{},
		apiKey:         conf.OpenAI.ApiKey,
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		model:          conf.OpenAI.Model,
		fallbackModel:  conf.OpenAI.FallbackModel,
		maxTokens:      conf.OpenAI.MaxTokens,
		attemptTimeout: 30 * time.Second,
		backoff:        []time.Duration{4 * time.Second, 8 * time.Second},
		log:            log.With(sl.Module("gpt")),
	}
}

// Complete generates text for a prompt. All retry handling lives here; the
// caller only ever sees the final text or a terminal error.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	log := c.log.With(slog.String("request_id", uuid.NewString()))

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			wait := c.backoff[attempt-1]
			log.Info("retrying completion",
				slog.Int("attempt", attempt+1),
				slog.Duration("wait", wait),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}

		text, err := c.primary(ctx, prompt)
		if err == nil {
			if text != "" {
				return text, nil
			}
			lastErr = errors.New("empty completion text")
			continue
		}
		if !isRetryable(err) {
			return "", fmt.Errorf("completion: %w", err)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Warn("completion attempt failed", slog.Int("attempt", attempt+1), sl.Err(err))
		lastErr = err
	}

	log.Warn("primary attempts exhausted, trying fallback", sl.Err(lastErr))

	text, err := c.fallback(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("fallback after %d attempts: %w (primary: %v)", maxAttempts, err, lastErr)
	}
	if text == "" {
		return "", fmt.Errorf("fallback returned empty text (primary: %v)", lastErr)
	}
	return text, nil
}

func (c *Client) primary(ctx context.Context, prompt string) (string, error) {
	actx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(actx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// isRetryable classifies provider errors. Auth failures short-circuit;
// everything else (rate limits, 5xx, connection resets, malformed bodies)
// is worth another attempt.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return false
		}
		return true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return false
		}
		return true
	}
	return true
}

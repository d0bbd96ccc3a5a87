package gpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// The fallback speaks the Responses API directly instead of going through
// the SDK. The two call shapes diverged when the provider changed its API;
// keeping both tolerates that drift.

type responsesRequest struct {
	Model           string        `json:"model"`
	Input           []messageItem `json:"input"`
	MaxOutputTokens int           `json:"max_output_tokens,omitempty"`
	Store           bool          `json:"store"`
}

type messageItem struct {
	Role    string        `json:"role"`
	Content []contentItem `json:"content"`
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responsesResponse struct {
	ID     string `json:"id"`
	Output []struct {
		Type    string `json:"type"`
		Status  string `json:"status,omitempty"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content,omitempty"`
	} `json:"output"`
}

func (c *Client) fallback(ctx context.Context, prompt string) (string, error) {
	reqBody := responsesRequest{
		Model: c.fallbackModel,
		Input: []messageItem{
			{
				Role: "user",
				Content: []contentItem{
					{Type: "input_text", Text: prompt},
				},
			},
		},
		MaxOutputTokens: c.maxTokens,
		Store:           false,
	}

	b, _ := json.Marshal(reqBody)
	actx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodPost, c.baseURL+"/responses", bytes.NewBuffer(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// Limit to 10MB to avoid OOM on a misbehaving endpoint
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("response API error: %s", string(body))
	}

	var apiResp responsesResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %v", err)
	}

	text := ""
	for _, out := range apiResp.Output {
		if out.Type != "message" {
			continue
		}
		for _, content := range out.Content {
			if content.Type == "output_text" && content.Text != "" {
				text = content.Text // keep overwriting, final one wins
			}
		}
	}

	if text == "" {
		c.log.Warn("no assistant message in Response API output",
			slog.String("response_id", apiResp.ID),
		)
		return "", fmt.Errorf("no output from assistant")
	}
	return text, nil
}

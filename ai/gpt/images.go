package gpt

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// GenerateCardImage renders a tarot card illustration and returns its URL.
// Image generation is best-effort; callers fall back to text-only delivery.
func (c *Client) GenerateCardImage(ctx context.Context, card string) (string, error) {
	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Model:   openai.CreateImageModelDallE3,
		Prompt:  fmt.Sprintf("A mystical Tarot card illustration of %s in a detailed fantasy style.", card),
		Size:    openai.CreateImageSize1024x1024,
		Quality: openai.CreateImageQualityStandard,
		N:       1,
	})
	if err != nil {
		return "", fmt.Errorf("generating image: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", errors.New("no image data in response")
	}
	return resp.Data[0].URL, nil
}

// Package claude implements vision.Classifier on the Anthropic Messages API.
package claude

import (
	"context"
	"fmt"
	"io"

	anthropicapi "github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/fridgekeep/internal/vision"
)

type Classifier struct {
	client *anthropicapi.Client
	model  anthropicapi.Model
}

func NewClassifier(apiKey, model string) *Classifier {
	return &Classifier{
		client: anthropicapi.NewClient(apiKey),
		model:  anthropicapi.Model(model),
	}
}

func (c *Classifier) Classify(ctx context.Context, r io.Reader, mimeType string) (vision.Detection, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return vision.Detection{}, fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := c.client.CreateMessages(ctx, anthropicapi.MessagesRequest{
		Model: c.model,
		// A detection is one short line; 256 tokens leaves headroom for
		// models that ignore the no-other-text instruction.
		MaxTokens: 256,
		Messages: []anthropicapi.Message{
			{
				Role: anthropicapi.RoleUser,
				Content: []anthropicapi.MessageContent{
					anthropicapi.NewImageMessageContent(anthropicapi.NewMessageContentSource(
						anthropicapi.MessagesContentSourceTypeBase64,
						normalizeMIME(mimeType),
						imageData,
					)),
					anthropicapi.NewTextMessageContent(vision.ClassifyPrompt),
				},
			},
		},
	})
	if err != nil {
		return vision.Detection{}, fmt.Errorf("failed to call vision model: %w", err)
	}

	return vision.ParseDetection(resp.GetFirstContentText()), nil
}

// normalizeMIME maps browser MIME types to the values the Anthropic API
// accepts. Unknown types are coerced to jpeg as the most universally
// supported lossy fallback.
func normalizeMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}

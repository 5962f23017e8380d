// Package ai wraps the LLM providers used to tag clothing, read body
// measurements and compose outfits, plus the Ready Player Me avatar API.
package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/raushankrgupta/stylesync/config"
)

// ErrMissingCredential is returned when the configured provider has no API key.
var ErrMissingCredential = errors.New("ai provider credential is not configured")

// Image is an inline image sent alongside a prompt.
type Image struct {
	MIMEType string
	Data     []byte
}

// DataURL renders the image as a data: URL.
func (i Image) DataURL() string {
	return "data:" + i.mimeType() + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

func (i Image) mimeType() string {
	if i.MIMEType == "" {
		return "image/jpeg"
	}
	return i.MIMEType
}

// Model is a single-shot multimodal completion. Implementations make one
// attempt and return the raw text of the first candidate.
type Model interface {
	Generate(ctx context.Context, prompt string, images ...Image) (string, error)
}

// NewModel picks the provider named by AI_PROVIDER. A provider without a key
// is still returned; its calls fail with ErrMissingCredential.
func NewModel(ctx context.Context, cfg *config.Config) (Model, error) {
	switch strings.ToLower(cfg.AIProvider) {
	case "", "gemini":
		return NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "gateway":
		return NewGatewayModel(cfg.AIGatewayURL, cfg.AIGatewayAPIKey, cfg.AIGatewayModel), nil
	case "anthropic":
		return NewAnthropicModel(cfg.AnthropicAPIKey, cfg.ClaudeModel), nil
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AIProvider)
	}
}

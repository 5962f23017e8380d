package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
)

// GatewayModel talks to any OpenAI-compatible chat completions endpoint,
// such as a hosted AI gateway fronting Gemini.
type GatewayModel struct {
	client *openai.Client
	model  string
}

func NewGatewayModel(baseURL, apiKey, model string) *GatewayModel {
	if apiKey == "" {
		slog.Warn("AI_GATEWAY_API_KEY is not set, AI calls will fail")
		return &GatewayModel{model: model}
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &GatewayModel{client: openai.NewClientWithConfig(cfg), model: model}
}

func (m *GatewayModel) Generate(ctx context.Context, prompt string, images ...Image) (string, error) {
	if m.client == nil {
		return "", ErrMissingCredential
	}

	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(images) == 0 {
		msg.Content = prompt
	} else {
		msg.MultiContent = []openai.ChatMessagePart{{Type: openai.ChatMessagePartTypeText, Text: prompt}}
		for _, img := range images {
			msg.MultiContent = append(msg.MultiContent, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: img.DataURL()},
			})
		}
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    m.model,
		Messages: []openai.ChatCompletionMessage{msg},
	})
	if err != nil {
		return "", fmt.Errorf("gateway chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("gateway returned no choices")
	}
	slog.Debug("gateway completion", "model", m.model, "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}

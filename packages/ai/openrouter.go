package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"codesensei/packages/config"
	"codesensei/types"

	"github.com/sashabaranov/go-openai"
)

// OpenRouterClient talks to OpenRouter's OpenAI-compatible chat completions
// endpoint.
type OpenRouterClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewOpenRouterClient(cfg config.AIConfig) *OpenRouterClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenRouterClient{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
	}
}

func (c *OpenRouterClient) Name() string { return "openrouter:" + c.model }
func (c *OpenRouterClient) Close() error { return nil }

func (c *OpenRouterClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []types.ChatMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}})
}

func (c *OpenRouterClient) Chat(ctx context.Context, messages []types.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    openAIRole(m.Role),
			Content: m.Content,
		})
	}

	slog.Info("Sending request to OpenRouter", "model", c.model, "messages", len(req.Messages))

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}

	content := resp.Choices[0].Message.Content
	slog.Info("Received OpenRouter completion", "contentLength", len(content))
	return content, nil
}

func openAIRole(role string) string {
	switch strings.ToLower(role) {
	case openai.ChatMessageRoleSystem:
		return openai.ChatMessageRoleSystem
	case openai.ChatMessageRoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"codesensei/packages/config"
	"codesensei/types"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient uses the Gemini API directly instead of OpenRouter.
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

func NewGeminiClient(ctx context.Context, cfg config.AIConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		slog.Error("Failed to create Gemini client", "error", err)
		return nil, err
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	if cfg.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(cfg.MaxOutputTokens))
	}
	model.ResponseMIMEType = "application/json"

	return &GeminiClient{client: client, model: model, modelName: cfg.Model}, nil
}

func (g *GeminiClient) Name() string { return "gemini:" + g.modelName }
func (g *GeminiClient) Close() error { return g.client.Close() }

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	slog.Info("Sending request to Gemini API", "model", g.modelName)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		slog.Error("Failed to generate content", "error", err)
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	return responseText(resp)
}

// Chat replays all but the last message as history and sends the last one.
func (g *GeminiClient) Chat(ctx context.Context, messages []types.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages to send")
	}

	// Chat replies are prose, not JSON.
	model := *g.model
	model.ResponseMIMEType = ""

	cs := model.StartChat()
	for _, m := range messages[:len(messages)-1] {
		role := "user"
		if strings.EqualFold(m.Role, "assistant") {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(messages[len(messages)-1].Content))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyCompletion
	}

	slog.Info("Successfully generated content", "contentLength", sb.Len())
	return sb.String(), nil
}

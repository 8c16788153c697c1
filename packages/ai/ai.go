package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codesensei/packages/config"
	"codesensei/types"
)

var (
	// ErrNotConfigured is returned when no LLM credential is available.
	ErrNotConfigured = errors.New("LLM API key not configured")
	// ErrEmptyCompletion is returned when the model produced no text.
	ErrEmptyCompletion = errors.New("no content generated")
)

const (
	defaultOpenRouterModel = "meta-llama/llama-3.3-70b-instruct:free"
	defaultGeminiModel     = "gemini-2.5-flash"
)

// Client is a chat-completion backend.
type Client interface {
	Name() string
	// Complete sends prompt as a single user message and returns the reply text.
	Complete(ctx context.Context, prompt string) (string, error)
	// Chat sends a whole conversation and returns the assistant reply.
	Chat(ctx context.Context, messages []types.ChatMessage) (string, error)
	Close() error
}

// NewClient builds the client for cfg.Provider. It returns ErrNotConfigured
// when AI is disabled or the provider's key is missing.
func NewClient(ctx context.Context, cfg config.AIConfig) (Client, error) {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		if cfg.Model == "" || cfg.Model == defaultOpenRouterModel {
			cfg.Model = defaultGeminiModel
		}
		return NewGeminiClient(ctx, cfg)
	case "openrouter", "":
		if cfg.Model == "" {
			cfg.Model = defaultOpenRouterModel
		}
		return NewOpenRouterClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// Analyze asks the model for a structured analysis of the repository
// described by facts.
func Analyze(ctx context.Context, client Client, facts RepoFacts) (types.AIAnalysis, error) {
	text, err := client.Complete(ctx, BuildAnalysisPrompt(facts))
	if err != nil {
		return types.AIAnalysis{}, err
	}
	return ParseAnalysis(text)
}

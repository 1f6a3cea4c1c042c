package ai

import (
	"context"
	"fmt"

	"github.com/medguard/claim-portal/pkg/config"
)

// Provider defines the interface to a text-generation backend. Callers must
// treat any error as "narrative unavailable" and fall back to local
// heuristics; numeric scoring never depends on a provider.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete generates a completion for the given request
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest contains the input for a completion call
type CompletionRequest struct {
	// System sets the assistant's role
	System string

	// Prompt is the user-facing content
	Prompt string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls randomness; analysis calls use a low value
	Temperature float32
}

// New constructs a provider from configuration. A blank provider name means
// AI features are disabled; callers receive nil and use their fallbacks.
func New(cfg config.AIConfig) (Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.Provider)
	}
}

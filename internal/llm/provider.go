// Package llm is the collaborator side of the model boundary: provider
// implementations and the prompt builders that embed the guard pipeline's
// contracts. The guard packages never import this package; the pipeline
// consumes raw completion strings and nothing else.
package llm

import (
	"context"

	"github.com/tuanvm/draftguard/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Rewrite sends an edit prompt and returns the raw completion
	Rewrite(ctx context.Context, req RewriteRequest) (*RewriteResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// RewriteRequest contains the input for one edit round-trip
type RewriteRequest struct {
	// System is the system prompt carrying the contract rules
	System string

	// Prompt is the user prompt with the draft and instruction
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// RewriteResponse contains the raw model completion
type RewriteResponse struct {
	// Text is the completion exactly as returned; the guard pipeline
	// validates it before anything is merged
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// ConfigFromModel converts model.LLMConfig to the provider config
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		MaxTokens: c.MaxTokens,
	}
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   60,
		MaxTokens: 2000,
	}
}

// Package llm provides LLM provider abstractions.
//
// LLM Provider interface - the abstract interface for LLM providers.
// Each provider implementation hides:
// - API client initialization
// - Request/response format conversion
// - Provider-specific error translation into UpstreamError

package llm

import (
	"context"
)

// Provider defines the abstract interface for a configured LLM provider.
// Implementations hide provider-specific details while exposing
// a consistent interface for one-shot chat completions.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the model being used.
	Model() string

	// Chat sends a conversation and returns the generated text.
	// An empty Content means the provider produced nothing extractable.
	Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error)
}

// ActiveConfig is the provider configuration resolved for a single request.
type ActiveConfig struct {
	Provider   string
	Descriptor Descriptor
	APIKey     string
	Model      string
}

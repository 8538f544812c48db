// Provider Adapter - translates a conversation into the active provider's
// wire format and returns the generated text.

package llm

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single provider call when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// Adapter issues one provider call per Invoke. It holds no per-request
// state and is safe for concurrent use.
type Adapter struct {
	timeout   time.Duration
	transport http.RoundTripper
	logger    *slog.Logger
}

// NewAdapter creates an adapter whose provider calls time out after timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{
		timeout: timeout,
		logger:  slog.New(slog.DiscardHandler),
	}
}

// WithTransport sets the underlying round tripper (defaults to http.DefaultTransport).
func (a *Adapter) WithTransport(rt http.RoundTripper) *Adapter {
	a.transport = rt
	return a
}

// WithLogger sets the logger used for usage reporting.
func (a *Adapter) WithLogger(logger *slog.Logger) *Adapter {
	a.logger = logger
	return a
}

// Provider builds the provider for cfg, dispatching on the descriptor's wire format.
func (a *Adapter) Provider(cfg ActiveConfig) (Provider, error) {
	httpClient := newHTTPClient(a.transport, cfg.Descriptor.AuthHeaders(cfg.APIKey), a.timeout)

	switch cfg.Descriptor.Wire {
	case WireChatCompletions:
		return NewChatCompletionsProvider(cfg, httpClient), nil
	case WireGenerateContent:
		return NewGenerateContentProvider(cfg, httpClient), nil
	case WireMessages:
		return NewMessagesProvider(cfg, httpClient), nil
	default:
		return nil, &UnknownProviderError{Provider: cfg.Provider, Wire: cfg.Descriptor.Wire}
	}
}

// Invoke sends the conversation to the configured provider and returns its text.
// A successful response without text yields NoResponseText rather than an error.
func (a *Adapter) Invoke(ctx context.Context, conversation []ChatMessage, cfg ActiveConfig) (string, error) {
	provider, err := a.Provider(cfg)
	if err != nil {
		return "", err
	}

	response, err := provider.Chat(ctx, conversation)
	if err != nil {
		return "", err
	}

	if response.Usage != nil {
		a.logger.Debug("provider usage",
			"provider", provider.Name(),
			"model", provider.Model(),
			"prompt_tokens", response.Usage.PromptTokens,
			"completion_tokens", response.Usage.CompletionTokens,
		)
	}

	if response.Content == "" {
		return NoResponseText, nil
	}
	return response.Content, nil
}

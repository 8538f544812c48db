// Messages branch implemented with the official anthropic-sdk-go.
//
// Information Hiding:
// - Request/response format for the Anthropic Messages API
// - System prompt lifted into the top-level system field
// - SDK retries disabled; a single failure is surfaced immediately

package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// MessagesProvider implements the Provider interface for the Messages API.
type MessagesProvider struct {
	client anthropic.Client
	name   string
	model  string
	apiKey string
}

// NewMessagesProvider creates a messages provider.
func NewMessagesProvider(cfg ActiveConfig, httpClient *http.Client) *MessagesProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.Descriptor.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &MessagesProvider{
		client: client,
		name:   cfg.Provider,
		model:  cfg.Model,
		apiKey: cfg.APIKey,
	}
}

// Name returns the provider name.
func (p *MessagesProvider) Name() string {
	return p.name
}

// Model returns the current model.
func (p *MessagesProvider) Model() string {
	return p.model
}

// Chat sends a messages request.
func (p *MessagesProvider) Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error) {
	anthropicMessages, systemPrompt := convertToAnthropicMessages(messages)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   defaultMaxTokens,
		Messages:    anthropicMessages,
		Temperature: anthropic.Float(defaultTemperature),
	}

	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return LLMResponse{}, p.translateError(err)
	}

	content := ""
	for _, block := range message.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			content = variant.Text
			break
		}
	}

	var usage *TokenUsage
	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		usage = &TokenUsage{
			PromptTokens:     uint32(message.Usage.InputTokens),
			CompletionTokens: uint32(message.Usage.OutputTokens),
			TotalTokens:      uint32(message.Usage.InputTokens + message.Usage.OutputTokens),
		}
	}

	return LLMResponse{Content: content, Usage: usage}, nil
}

func (p *MessagesProvider) translateError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return scrubError(&UpstreamError{
			Provider:   p.name,
			StatusCode: apiErr.StatusCode,
			Body:       apiErr.Error(),
			Err:        err,
		}, p.apiKey)
	}
	return scrubError(newTransportError(p.name, err), p.apiKey)
}

// convertToAnthropicMessages converts our ChatMessage to Anthropic format.
// Extracts the system message and returns it separately.
func convertToAnthropicMessages(messages []ChatMessage) ([]anthropic.MessageParam, string) {
	var anthropicMessages []anthropic.MessageParam
	var systemPrompt string

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			systemPrompt = msg.Content
		case RoleAssistant:
			anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		default:
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		}
	}

	return anthropicMessages, systemPrompt
}

// Verify MessagesProvider implements Provider
var _ Provider = (*MessagesProvider)(nil)

// Chat-completions branch implemented with the go-openai library.
//
// Information Hiding:
// - Request/response format for the Chat Completions API
// - Serves every descriptor with WireChatCompletions (OpenRouter, OpenAI, DeepSeek)
// - SDK error types translated into UpstreamError

package llm

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompletionsProvider implements the Provider interface for chat-completions APIs.
type ChatCompletionsProvider struct {
	client *openai.Client
	name   string
	model  string
	apiKey string
}

// NewChatCompletionsProvider creates a chat-completions provider.
// Authentication is carried by httpClient, so the SDK is given no token.
func NewChatCompletionsProvider(cfg ActiveConfig, httpClient *http.Client) *ChatCompletionsProvider {
	config := openai.DefaultConfig("")
	config.BaseURL = cfg.Descriptor.BaseURL
	config.HTTPClient = httpClient

	return &ChatCompletionsProvider{
		client: openai.NewClientWithConfig(config),
		name:   cfg.Provider,
		model:  cfg.Model,
		apiKey: cfg.APIKey,
	}
}

// Name returns the provider name.
func (p *ChatCompletionsProvider) Name() string {
	return p.name
}

// Model returns the current model.
func (p *ChatCompletionsProvider) Model() string {
	return p.model
}

// Chat sends a chat completion request.
func (p *ChatCompletionsProvider) Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return LLMResponse{}, p.translateError(err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	usage := &TokenUsage{
		PromptTokens:     uint32(resp.Usage.PromptTokens),
		CompletionTokens: uint32(resp.Usage.CompletionTokens),
		TotalTokens:      uint32(resp.Usage.TotalTokens),
	}

	return LLMResponse{Content: content, Usage: usage}, nil
}

func (p *ChatCompletionsProvider) translateError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return scrubError(&UpstreamError{
			Provider:   p.name,
			StatusCode: apiErr.HTTPStatusCode,
			Body:       apiErr.Message,
			Err:        err,
		}, p.apiKey)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := string(reqErr.Body)
		if body == "" && reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return scrubError(&UpstreamError{
			Provider:   p.name,
			StatusCode: reqErr.HTTPStatusCode,
			Body:       body,
			Err:        err,
		}, p.apiKey)
	}

	return scrubError(newTransportError(p.name, err), p.apiKey)
}

// convertToOpenAIMessages converts our ChatMessage to openai.ChatCompletionMessage.
// Roles pass through unchanged.
func convertToOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		result[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	return result
}

// Verify ChatCompletionsProvider implements Provider
var _ Provider = (*ChatCompletionsProvider)(nil)

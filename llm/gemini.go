// Generate-content branch implemented with the official google.golang.org/genai SDK.
//
// Information Hiding:
// - Request/response format for the Gemini generateContent API
// - System instruction lifted out of the turn sequence into config
// - SDK error types translated into UpstreamError

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GenerateContentProvider implements the Provider interface for generate-content APIs.
type GenerateContentProvider struct {
	httpClient *http.Client
	baseURL    string
	name       string
	model      string
	apiKey     string
}

// NewGenerateContentProvider creates a generate-content provider.
// The SDK client is created per call so that a bad credential surfaces as
// a request failure instead of a constructor failure.
func NewGenerateContentProvider(cfg ActiveConfig, httpClient *http.Client) *GenerateContentProvider {
	return &GenerateContentProvider{
		httpClient: httpClient,
		baseURL:    cfg.Descriptor.BaseURL,
		name:       cfg.Provider,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
	}
}

// Name returns the provider name.
func (p *GenerateContentProvider) Name() string {
	return p.name
}

// Model returns the current model.
func (p *GenerateContentProvider) Model() string {
	return p.model
}

// Chat sends a generateContent request.
func (p *GenerateContentProvider) Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      p.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  p.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: p.baseURL},
	})
	if err != nil {
		return LLMResponse{}, scrubError(&UpstreamError{
			Provider: p.name,
			Body:     fmt.Sprintf("failed to initialize client: %v", err),
			Err:      err,
		}, p.apiKey)
	}

	contents, systemInstruction := convertToGeminiMessages(messages)

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](defaultTemperature),
		TopK:            genai.Ptr[float32](defaultTopK),
		TopP:            genai.Ptr[float32](defaultTopP),
		MaxOutputTokens: defaultMaxTokens,
	}

	if systemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	response, err := client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return LLMResponse{}, p.translateError(err)
	}

	var usage *TokenUsage
	if response.UsageMetadata != nil {
		usage = &TokenUsage{
			PromptTokens:     uint32(response.UsageMetadata.PromptTokenCount),
			CompletionTokens: uint32(response.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      uint32(response.UsageMetadata.TotalTokenCount),
		}
	}

	return LLMResponse{Content: firstCandidateText(response), Usage: usage}, nil
}

func (p *GenerateContentProvider) translateError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return scrubError(&UpstreamError{
			Provider:   p.name,
			StatusCode: apiErr.Code,
			Body:       apiErr.Message,
			Err:        err,
		}, p.apiKey)
	}
	return scrubError(newTransportError(p.name, err), p.apiKey)
}

// firstCandidateText returns the text of the first part of the first candidate.
func firstCandidateText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 {
		return ""
	}
	content := response.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return ""
	}
	return content.Parts[0].Text
}

// convertToGeminiMessages converts our ChatMessage to Gemini format.
// The system message is returned separately; the last one wins if several are given.
func convertToGeminiMessages(messages []ChatMessage) ([]*genai.Content, string) {
	var contents []*genai.Content
	var systemInstruction string

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			systemInstruction = msg.Content
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	return contents, systemInstruction
}

// Verify GenerateContentProvider implements Provider
var _ Provider = (*GenerateContentProvider)(nil)

// Provider Registry - static catalog of supported providers.
//
// Quick Start:
//
//	registry := llm.DefaultRegistry(llm.Attribution{SiteURL: "https://example.dev", SiteName: "Demo"})
//	desc, ok := registry.Describe("gemini")
//	headers := desc.Headers(apiKey)
//
// Adding a provider means adding a Descriptor. Only the adapter looks at
// Descriptor.Wire; everything else depends on the descriptor's shape.

package llm

import (
	"sort"
)

// Wire identifies the request/response schema a provider speaks.
type Wire int

const (
	// WireChatCompletions is the chat-completions schema (choices[0].message.content).
	WireChatCompletions Wire = iota + 1
	// WireGenerateContent is the generate-content schema (candidates[0].content.parts[0].text).
	WireGenerateContent
	// WireMessages is the messages schema (content[0].text with a top-level system field).
	WireMessages
)

// String returns the string representation of the wire format.
func (w Wire) String() string {
	switch w {
	case WireChatCompletions:
		return "chat-completions"
	case WireGenerateContent:
		return "generate-content"
	case WireMessages:
		return "messages"
	default:
		return "unknown"
	}
}

// Provider names shipped in the default registry.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderDeepSeek   = "deepseek"
	ProviderAnthropic  = "anthropic"
)

// Default model identifiers.
const (
	ModelOpenRouterDefault = "openai/gpt-4o-mini"
	ModelGeminiFlash25     = "gemini-2.5-flash"
	ModelOpenAIGPT4oMini   = "gpt-4o-mini"
	ModelDeepSeekChat      = "deepseek-chat"
	ModelClaudeSonnet4     = "claude-sonnet-4-20250514"
)

// Descriptor is static metadata describing how to address and
// authenticate to a provider. Descriptors are immutable once registered.
type Descriptor struct {
	Name         string
	BaseURL      string
	DefaultModel string
	Wire         Wire

	// Headers maps a credential to the HTTP headers that authenticate with it.
	Headers func(apiKey string) map[string]string
}

// AuthHeaders returns the authentication headers for apiKey, or nil when
// the descriptor defines none.
func (d Descriptor) AuthHeaders(apiKey string) map[string]string {
	if d.Headers == nil {
		return nil
	}
	return d.Headers(apiKey)
}

// Attribution holds the vendor-attribution strings sent to OpenRouter.
type Attribution struct {
	SiteURL  string
	SiteName string
}

// Registry is a read-only catalog of provider descriptors keyed by name.
// It is safe for concurrent use because it is never mutated after construction.
type Registry struct {
	descriptors map[string]Descriptor
}

// NewRegistry creates a registry from the given descriptors.
// A later descriptor with the same name replaces an earlier one.
func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{descriptors: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		r.descriptors[d.Name] = d
	}
	return r
}

// DefaultRegistry returns the built-in provider catalog.
func DefaultRegistry(attr Attribution) *Registry {
	return NewRegistry(
		OpenRouterDescriptor(attr),
		GeminiDescriptor(),
		OpenAIDescriptor(),
		DeepSeekDescriptor(),
		AnthropicDescriptor(),
	)
}

// Describe looks up a descriptor by provider name.
func (r *Registry) Describe(name string) (Descriptor, bool) {
	d, ok := r.descriptors[name]
	return d, ok
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenRouterDescriptor describes OpenRouter: bearer auth plus two attribution headers.
func OpenRouterDescriptor(attr Attribution) Descriptor {
	return Descriptor{
		Name:         ProviderOpenRouter,
		BaseURL:      "https://openrouter.ai/api/v1",
		DefaultModel: ModelOpenRouterDefault,
		Wire:         WireChatCompletions,
		Headers: func(apiKey string) map[string]string {
			return map[string]string{
				"Authorization": "Bearer " + apiKey,
				"HTTP-Referer":  attr.SiteURL,
				"X-Title":       attr.SiteName,
			}
		},
	}
}

// GeminiDescriptor describes the Google Gemini API, authenticated by API-key header.
func GeminiDescriptor() Descriptor {
	return Descriptor{
		Name:         ProviderGemini,
		BaseURL:      "https://generativelanguage.googleapis.com/",
		DefaultModel: ModelGeminiFlash25,
		Wire:         WireGenerateContent,
		Headers: func(apiKey string) map[string]string {
			return map[string]string{"x-goog-api-key": apiKey}
		},
	}
}

// OpenAIDescriptor describes the OpenAI API.
func OpenAIDescriptor() Descriptor {
	return Descriptor{
		Name:         ProviderOpenAI,
		BaseURL:      "https://api.openai.com/v1",
		DefaultModel: ModelOpenAIGPT4oMini,
		Wire:         WireChatCompletions,
		Headers:      bearerHeaders,
	}
}

// DeepSeekDescriptor describes DeepSeek's OpenAI-compatible API.
func DeepSeekDescriptor() Descriptor {
	return Descriptor{
		Name:         ProviderDeepSeek,
		BaseURL:      "https://api.deepseek.com/v1",
		DefaultModel: ModelDeepSeekChat,
		Wire:         WireChatCompletions,
		Headers:      bearerHeaders,
	}
}

// AnthropicDescriptor describes the Anthropic Messages API.
func AnthropicDescriptor() Descriptor {
	return Descriptor{
		Name:         ProviderAnthropic,
		BaseURL:      "https://api.anthropic.com/",
		DefaultModel: ModelClaudeSonnet4,
		Wire:         WireMessages,
		Headers: func(apiKey string) map[string]string {
			return map[string]string{
				"x-api-key":         apiKey,
				"anthropic-version": "2023-06-01",
			}
		},
	}
}

func bearerHeaders(apiKey string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + apiKey}
}

package config

import (
	"fmt"
	"strings"

	"github.com/richinex/codechat/llm"
)

// ConfigurationError reports a missing or unknown provider or credential.
type ConfigurationError struct {
	Provider string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Provider == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error for provider %q: %s", e.Provider, e.Reason)
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"claude": llm.ProviderAnthropic,
	"google": llm.ProviderGemini,
	"gpt":    llm.ProviderOpenAI,
}

// NewRegistry builds the provider catalog, capturing the attribution
// strings from env. Call it once at startup.
func NewRegistry(env Environment) *llm.Registry {
	return llm.DefaultRegistry(llm.Attribution{
		SiteURL:  env.GetOr(EnvSiteURL, DefaultSiteURL),
		SiteName: env.GetOr(EnvSiteName, DefaultSiteName),
	})
}

// Resolver derives the active provider configuration from an environment.
type Resolver struct {
	registry *llm.Registry
}

// NewResolver creates a resolver over registry.
func NewResolver(registry *llm.Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Registry returns the catalog the resolver looks providers up in.
func (r *Resolver) Registry() *llm.Registry {
	return r.registry
}

// Resolve selects the provider named by AI_PROVIDER (default openrouter),
// its credential and its model. A <PROVIDER>_MODEL override wins over the
// descriptor's default model.
func (r *Resolver) Resolve(env Environment) (llm.ActiveConfig, error) {
	name := normalizeProvider(env.GetOr(EnvProvider, DefaultProvider))

	desc, ok := r.registry.Describe(name)
	if !ok {
		return llm.ActiveConfig{}, &ConfigurationError{Provider: name, Reason: "unknown provider"}
	}

	keyEnv := APIKeyEnv(name)
	apiKey := strings.TrimSpace(env.Get(keyEnv))
	if apiKey == "" {
		return llm.ActiveConfig{}, &ConfigurationError{Provider: name, Reason: keyEnv + " environment variable not set"}
	}

	model := env.GetOr(ModelEnv(name), desc.DefaultModel)

	return llm.ActiveConfig{
		Provider:   name,
		Descriptor: desc,
		APIKey:     apiKey,
		Model:      model,
	}, nil
}

// APIKeyEnv returns the environment key holding the credential for provider.
func APIKeyEnv(provider string) string {
	return envPrefix(provider) + "_API_KEY"
}

// ModelEnv returns the environment key holding the model override for provider.
func ModelEnv(provider string) string {
	return envPrefix(provider) + "_MODEL"
}

func envPrefix(provider string) string {
	return strings.ToUpper(strings.ReplaceAll(provider, "-", "_"))
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

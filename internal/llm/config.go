// Package llm provides the provider-agnostic JSON generation gateway and its model providers.
// Providers are looked up by identifier in a registry so callers never branch on provider names.
package llm

import "time"

// Provider identifiers known to the registry
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini = "gemini"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic = "anthropic"
	// ProviderStatic replays a fixed response; used for offline runs and tests
	ProviderStatic = "static"
)

// DefaultTimeout bounds a single provider call when the caller sets no deadline of its own.
const DefaultTimeout = 60 * time.Second

// ProviderConfig holds everything a provider factory needs to build a handle.
type ProviderConfig struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	// FixturePath is the response file replayed by the static provider.
	FixturePath string
}

// DefaultModels maps each provider to the model used when none is configured.
var DefaultModels = map[string]string{
	ProviderGemini:    "gemini-2.5-flash",
	ProviderAnthropic: "claude-sonnet-4-20250514",
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() ProviderConfig {
	return ProviderConfig{
		Provider:  ProviderGemini,
		Model:     DefaultModels[ProviderGemini],
		MaxTokens: 8192,
	}
}

// ModelName returns the configured model, falling back to the provider default.
func (c ProviderConfig) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModels[c.Provider]
}

// WithModel returns a copy of the config using a specific model.
func (c ProviderConfig) WithModel(model string) ProviderConfig {
	c.Model = model
	return c
}

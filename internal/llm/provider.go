package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Provider is a single model backend able to answer a text prompt.
type Provider interface {
	// Generate sends the prompt and returns the raw text answer
	Generate(ctx context.Context, prompt string) (string, error)
	// Name returns the provider identifier
	Name() string
	// Close releases any resources held by the provider
	Close() error
}

// ProviderFactory builds a provider handle. It is invoked lazily by the Gateway.
type ProviderFactory func(ctx context.Context) (Provider, error)

// Constructor builds a provider from configuration.
type Constructor func(ctx context.Context, config ProviderConfig) (Provider, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

func init() {
	Register(ProviderGemini, NewGeminiProvider)
	Register(ProviderAnthropic, NewAnthropicProvider)
	Register(ProviderStatic, NewStaticProvider)
}

// Register makes a provider constructor available under name, replacing any previous entry.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = ctor
}

// Providers returns the registered provider names in sorted order.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProvider looks up the configured provider and constructs it.
func NewProvider(ctx context.Context, config ProviderConfig) (Provider, error) {
	registryMu.RLock()
	ctor, ok := registry[config.Provider]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown llm provider %q", config.Provider)
	}
	return ctor(ctx, config)
}

// FactoryFor returns a ProviderFactory that constructs the configured provider on demand.
func FactoryFor(config ProviderConfig) ProviderFactory {
	return func(ctx context.Context) (Provider, error) {
		return NewProvider(ctx, config)
	}
}

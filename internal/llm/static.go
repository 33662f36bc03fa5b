package llm

import (
	"context"
	"os"

	"github.com/pkg/errors"
)

// StaticProvider answers every prompt with the same text.
// It backs offline runs and tests.
type StaticProvider struct {
	response string
}

// NewStaticProvider reads the fixture file named by config.FixturePath.
func NewStaticProvider(_ context.Context, config ProviderConfig) (Provider, error) {
	if config.FixturePath == "" {
		return nil, errors.New("static provider requires a fixture path")
	}
	data, err := os.ReadFile(config.FixturePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read fixture %s", config.FixturePath)
	}
	return &StaticProvider{response: string(data)}, nil
}

// NewStaticResponse returns a provider that always answers with response.
func NewStaticResponse(response string) *StaticProvider {
	return &StaticProvider{response: response}
}

// Generate returns the fixed response unless ctx is already done.
func (p *StaticProvider) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.response, nil
}

// Name returns the provider identifier
func (p *StaticProvider) Name() string {
	return ProviderStatic
}

// Close is a no-op
func (p *StaticProvider) Close() error {
	return nil
}

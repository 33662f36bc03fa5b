package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

// AnthropicProvider implements Provider using the Anthropic Messages API
type AnthropicProvider struct {
	client anthropic.Client
	config ProviderConfig
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(_ context.Context, config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.APIKey),
	)

	return &AnthropicProvider{
		client: client,
		config: config,
	}, nil
}

// Generate sends the prompt as a single user message
func (p *AnthropicProvider) Generate(ctx context.Context, prompt string) (string, error) {
	maxTokens := int64(p.config.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.config.ModelName()),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(float64(p.config.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to call Anthropic API")
	}

	var sb strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no text content in Anthropic response")
	}
	return sb.String(), nil
}

// Name returns the provider identifier
func (p *AnthropicProvider) Name() string {
	return ProviderAnthropic
}

// Close is a no-op; the HTTP client holds no long-lived resources
func (p *AnthropicProvider) Close() error {
	return nil
}

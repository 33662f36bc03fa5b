package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/rs/zerolog"
)

// jsonOnlyInstruction wraps every caller prompt.
const jsonOnlyInstruction = `Return ONLY a valid JSON object. Do not include any prose, explanation, or markdown code fences.

%s`

// maxInitAttempts is the initial attempt plus one retry.
const maxInitAttempts = 2

// JSONGenerator turns a prompt into a parsed JSON value.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (any, error)
}

// Gateway is the shared, provider-agnostic JSON generation capability.
// The provider handle is created lazily and reused by all callers.
type Gateway struct {
	factory ProviderFactory
	timeout time.Duration
	logger  zerolog.Logger
	metrics *observability.Metrics

	mu       sync.Mutex
	provider Provider
	attempts int
	initErr  error
	closed   bool
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithTimeout bounds each provider call. Zero disables the gateway-level bound.
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.timeout = d }
}

// WithLogger sets the logger used for initialization and call failures.
func WithLogger(logger zerolog.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = logger }
}

// WithMetrics sets the counter sink for gateway failures.
func WithMetrics(m *observability.Metrics) GatewayOption {
	return func(g *Gateway) { g.metrics = m }
}

// NewGateway creates a gateway. No provider is constructed until first use or Warm.
func NewGateway(factory ProviderFactory, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		factory: factory,
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Warm spends the first initialization attempt eagerly, typically at startup.
// A failure here leaves one retry for the first call.
func (g *Gateway) Warm(ctx context.Context) error {
	_, err := g.acquire(ctx)
	return err
}

// acquire returns the provider, initializing it if the attempt budget allows.
func (g *Gateway) acquire(ctx context.Context) (Provider, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, &GatewayError{Kind: KindUnavailable, Reason: "gateway closed"}
	}
	if g.provider != nil {
		return g.provider, nil
	}
	if g.attempts >= maxInitAttempts {
		return nil, &GatewayError{Kind: KindUnavailable, Reason: "provider initialization failed", Cause: g.initErr}
	}
	if g.factory == nil {
		g.attempts = maxInitAttempts
		g.initErr = errors.New("no provider configured")
		return nil, &GatewayError{Kind: KindUnavailable, Reason: "no provider configured"}
	}

	g.attempts++
	provider, err := g.factory(ctx)
	if err != nil {
		g.initErr = err
		g.metrics.Inc(observability.GatewayInitFailure)
		g.logger.Warn().Err(err).Int("attempt", g.attempts).Msg("llm provider initialization failed")
		return nil, &GatewayError{Kind: KindUnavailable, Reason: "provider initialization failed", Cause: err}
	}
	if provider == nil {
		g.initErr = errors.New("factory returned no provider")
		return nil, &GatewayError{Kind: KindUnavailable, Reason: "provider initialization failed", Cause: g.initErr}
	}

	g.provider = provider
	g.initErr = nil
	g.logger.Debug().Str("provider", provider.Name()).Msg("llm provider initialized")
	return provider, nil
}

// GenerateJSON wraps prompt in the JSON-only instruction, calls the provider and parses the answer.
// Every failure is a *GatewayError.
func (g *Gateway) GenerateJSON(ctx context.Context, prompt string) (any, error) {
	provider, err := g.acquire(ctx)
	if err != nil {
		g.metrics.Inc(observability.GatewayUnavailable)
		return nil, err
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := provider.Generate(ctx, fmt.Sprintf(jsonOnlyInstruction, prompt))
	if err != nil {
		g.metrics.Inc(observability.GatewayProviderError)
		reason := "provider call failed"
		if ctxErr := ctx.Err(); ctxErr != nil {
			reason = "provider call " + ctxErr.Error()
		}
		g.logger.Warn().Err(err).Str("provider", provider.Name()).Msg(reason)
		return nil, &GatewayError{Kind: KindProvider, Reason: reason, Cause: err}
	}

	value, err := ParseJSON(text)
	if err != nil {
		g.metrics.Inc(observability.GatewayParseError)
		g.logger.Warn().Err(err).Str("provider", provider.Name()).Int("response_len", len(text)).Msg("llm response was not valid JSON")
		return nil, &GatewayError{Kind: KindParse, Reason: "response is not valid JSON", Cause: err}
	}
	return value, nil
}

// Close releases the provider handle if one was created.
// Calls made after Close fail as unavailable instead of creating a new provider.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	if g.provider == nil {
		return nil
	}
	err := g.provider.Close()
	g.provider = nil
	return err
}

// ParseJSON cleans model output and decodes it into a generic value.
// Numbers are kept as json.Number so integers survive unchanged.
func ParseJSON(text string) (any, error) {
	cleaned := CleanJSONBlock(text)
	if cleaned == "" {
		return nil, errors.New("empty response")
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// Package parsing turns an uploaded resume document into a sanitized Profile.
// The document is extracted to text, structured by the model and repaired by the sanitizer.
package parsing

import (
	"context"
	"strings"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/sanitize"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/rs/zerolog"
)

// Result is a parsed resume with the extracted source and the repairs applied to the model output.
type Result struct {
	Profile  *types.Profile
	Repairs  []sanitize.Repair
	Document *extraction.Document
}

// Parser parses resumes through a JSON generator.
type Parser struct {
	gen       llm.JSONGenerator
	extractor *extraction.Extractor
	logger    zerolog.Logger
	metrics   *observability.Metrics
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the parser logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// WithMetrics sets the counter sink for sanitizer repairs.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Parser) { p.metrics = m }
}

// WithExtractor replaces the default document extractor.
func WithExtractor(e *extraction.Extractor) Option {
	return func(p *Parser) { p.extractor = e }
}

// NewParser creates a Parser backed by gen.
func NewParser(gen llm.JSONGenerator, opts ...Option) *Parser {
	p := &Parser{gen: gen, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	if p.extractor == nil {
		p.extractor = extraction.NewExtractor(extraction.WithLogger(p.logger))
	}
	return p
}

// ParsePDF extracts the document and parses its text.
// Unreadable documents fail with *extraction.ExtractionError.
func (p *Parser) ParsePDF(ctx context.Context, data []byte) (*Result, error) {
	doc, err := p.extractor.Extract(data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return nil, &extraction.ExtractionError{Message: "document contains no extractable text"}
	}

	result, err := p.ParseText(ctx, doc.Text)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	return result, nil
}

// ParseText structures resume text into a Profile.
// Gateway failures are returned as *ParseError; irreparable output as *sanitize.SchemaValidationError.
func (p *Parser) ParseText(ctx context.Context, text string) (*Result, error) {
	prompt, err := prompts.Render(prompts.ParsingFile, prompts.ParseResumeKey, map[string]string{
		"ResumeText": text,
		"LinkMarker": extraction.LinkMarker,
	})
	if err != nil {
		return nil, err
	}

	raw, err := p.gen.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, &ParseError{Message: "failed to generate profile", Cause: err}
	}

	sanitized, err := sanitize.Sanitize(raw)
	if err != nil {
		p.logger.Warn().Err(err).Str("reason", "sanitize").Msg("generated profile could not be repaired")
		return nil, err
	}

	if n := len(sanitized.Repairs); n > 0 {
		p.metrics.Add(observability.SanitizerRepairs, int64(n))
		p.logger.Debug().Int("repairs", n).Msg("profile repaired")
	}
	return &Result{Profile: sanitized.Profile, Repairs: sanitized.Repairs}, nil
}

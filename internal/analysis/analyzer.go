// Package analysis extracts structured requirements from job descriptions.
// Analysis is best-effort: any generation failure yields the Unknown analysis instead of an error.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/sanitize"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/rs/zerolog"
)

// PageFetcher fetches the text of a job posting URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.JobPage, error)
}

// Analyzer turns job text into a JobAnalysis through a JSON generator.
type Analyzer struct {
	gen     llm.JSONGenerator
	fetcher PageFetcher
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithFetcher enables AnalyzeJob to fetch postings given only by URL.
func WithFetcher(f PageFetcher) Option {
	return func(a *Analyzer) { a.fetcher = f }
}

// WithLogger sets the analyzer logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// WithMetrics sets the counter sink for fallbacks.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// NewAnalyzer creates an Analyzer backed by gen.
func NewAnalyzer(gen llm.JSONGenerator, opts ...Option) *Analyzer {
	a := &Analyzer{gen: gen, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze cleans the job text and asks the model for a structured analysis.
// It always returns a fully populated analysis.
func (a *Analyzer) Analyze(ctx context.Context, jobText string) *types.JobAnalysis {
	cleaned := CleanText(jobText)
	if cleaned == "" {
		return a.fallback("empty job description", nil)
	}

	prompt := llm.BuildExtractionPrompt(llm.JobAnalysisSchema(), cleaned)
	raw, err := a.gen.GenerateJSON(ctx, prompt)
	if err != nil {
		return a.fallback("generation failed", err)
	}

	analysis, repairs, err := sanitize.SanitizeJobAnalysis(raw)
	if err != nil {
		return a.fallback("invalid analysis", err)
	}
	if len(repairs) > 0 {
		a.logger.Debug().Int("repairs", len(repairs)).Msg("job analysis repaired")
	}

	analysis.RequiredSkills = DedupeSkills(analysis.RequiredSkills)
	analysis.PreferredSkills = DedupeSkills(analysis.PreferredSkills)
	return analysis
}

// AnalyzeJob analyzes a JobDescription, fetching the posting when only a URL is given.
// The returned analysis is never nil. The error is non-nil only when the
// description has no text and its URL could not be fetched.
func (a *Analyzer) AnalyzeJob(ctx context.Context, jd types.JobDescription) (*types.JobAnalysis, error) {
	text := jd.RawText
	if strings.TrimSpace(text) == "" && jd.URL != "" {
		if a.fetcher == nil {
			return types.UnknownJobAnalysis(), fmt.Errorf("job description has no text and URL fetching is disabled")
		}
		page, err := a.fetcher.Fetch(ctx, jd.URL)
		if err != nil {
			a.logger.Warn().Err(err).Str("url", jd.URL).Str("reason", "fetch").Msg("job posting could not be fetched")
			return a.fallback("fetch failed", err), err
		}
		text = page.Text
	}

	var header []string
	if jd.Title != "" {
		header = append(header, "Job title: "+jd.Title+".")
	}
	if jd.Company != "" {
		header = append(header, "Company: "+jd.Company+".")
	}
	if len(header) > 0 {
		text = strings.Join(header, " ") + "\n" + text
	}
	return a.Analyze(ctx, text), nil
}

func (a *Analyzer) fallback(reason string, err error) *types.JobAnalysis {
	a.metrics.Inc(observability.AnalysisFallback)
	a.logger.Warn().Err(err).Str("reason", reason).Msg("job analysis fell back to unknown")
	return types.UnknownJobAnalysis()
}

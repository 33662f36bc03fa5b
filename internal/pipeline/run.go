// Package pipeline provides the high-level orchestration for the resume tailoring process.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/analysis"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/sanitize"
	"github.com/jonathan/resume-tailor/internal/tailoring"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/rs/zerolog"
)

// Step names reported through ProgressCallback.
const (
	StepParse   = "parse_resume"
	StepAnalyze = "analyze_job"
	StepTailor  = "tailor"
	StepRender  = "render"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs.
// Parse and analysis run concurrently, so it may be called from two goroutines at once.
type ProgressCallback func(event ProgressEvent)

// Pipeline wires the components of one tailoring run.
// It holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	parser   *parsing.Parser
	analyzer *analysis.Analyzer
	engine   *tailoring.Engine
	renderer *rendering.Renderer
	logger   zerolog.Logger
	metrics  *observability.Metrics
	fetcher  analysis.PageFetcher
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger handed to every component.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics sets the counter sink handed to every component.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithFetcher lets job descriptions be given by URL only.
func WithFetcher(f analysis.PageFetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// New creates a Pipeline. renderer may be nil when no run renders a PDF.
func New(gen llm.JSONGenerator, renderer *rendering.Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{renderer: renderer, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}

	p.parser = parsing.NewParser(gen, parsing.WithLogger(p.logger), parsing.WithMetrics(p.metrics))
	analyzerOpts := []analysis.Option{analysis.WithLogger(p.logger), analysis.WithMetrics(p.metrics)}
	if p.fetcher != nil {
		analyzerOpts = append(analyzerOpts, analysis.WithFetcher(p.fetcher))
	}
	p.analyzer = analysis.NewAnalyzer(gen, analyzerOpts...)
	p.engine = tailoring.NewEngine(gen, tailoring.WithLogger(p.logger), tailoring.WithMetrics(p.metrics))
	return p
}

// ParseResume extracts and structures a resume PDF.
func (p *Pipeline) ParseResume(ctx context.Context, pdf []byte) (*parsing.Result, error) {
	return p.parser.ParsePDF(ctx, pdf)
}

// Analyze extracts the requirements of a job description. The analysis is never nil;
// the error reports only a posting URL that could not be fetched.
func (p *Pipeline) Analyze(ctx context.Context, jd types.JobDescription) (*types.JobAnalysis, error) {
	return p.analyzer.AnalyzeJob(ctx, jd)
}

// Tailor rewrites the profile for the analysis, falling back to a copy of profile.
func (p *Pipeline) Tailor(ctx context.Context, profile *types.Profile, analysis *types.JobAnalysis) *types.Profile {
	return p.engine.Tailor(ctx, profile, analysis)
}

// Render compiles the profile with the given template.
func (p *Pipeline) Render(ctx context.Context, profile *types.Profile, templateID string) ([]byte, error) {
	if p.renderer == nil {
		return nil, &rendering.RenderError{Message: "rendering is not configured"}
	}
	return p.renderer.Render(ctx, profile, templateID)
}

// TemplateIDs lists the template ids Render accepts; empty when rendering is not configured.
func (p *Pipeline) TemplateIDs() []string {
	if p.renderer == nil {
		return []string{}
	}
	return p.renderer.TemplateIDs()
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	// ResumePDF is parsed unless Profile is set.
	ResumePDF []byte
	Profile   *types.Profile

	Job        types.JobDescription
	TemplateID string

	// SkipRender stops after tailoring.
	SkipRender bool
	OnProgress ProgressCallback
}

// RunResult holds every intermediate product of a run.
type RunResult struct {
	Profile  *types.Profile
	Repairs  []sanitize.Repair
	Analysis *types.JobAnalysis
	Tailored *types.Profile
	Coverage analysis.Coverage
	PDF      []byte
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// Run parses the resume and analyzes the job in parallel, then tailors and renders.
// Parse and render failures are returned; analysis and tailoring failures fall back.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if opts.Profile == nil && len(opts.ResumePDF) == 0 {
		return nil, errors.New("a resume PDF or a profile is required")
	}

	result := &RunResult{}
	var mu sync.Mutex // Protect result assignments

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if opts.Profile != nil {
			mu.Lock()
			result.Profile = opts.Profile
			mu.Unlock()
			return nil
		}
		parsed, err := p.ParseResume(gCtx, opts.ResumePDF)
		if err != nil {
			return fmt.Errorf("resume parsing failed: %w", err)
		}
		mu.Lock()
		result.Profile = parsed.Profile
		result.Repairs = parsed.Repairs
		mu.Unlock()
		emitProgress(&opts, StepParse, fmt.Sprintf("Parsed resume for %s (%d repairs)", parsed.Profile.ContactInfo.Name, len(parsed.Repairs)), parsed.Profile)
		return nil
	})

	g.Go(func() error {
		jobAnalysis, err := p.Analyze(gCtx, opts.Job)
		if err != nil {
			p.logger.Warn().Err(err).Str("reason", "fetch").Msg("continuing with unknown job analysis")
		}
		mu.Lock()
		result.Analysis = jobAnalysis
		mu.Unlock()
		emitProgress(&opts, StepAnalyze, fmt.Sprintf("Analyzed job: %s (%d required skills)", jobAnalysis.RoleType, len(jobAnalysis.RequiredSkills)), jobAnalysis)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Tailored = p.Tailor(ctx, result.Profile, result.Analysis)
	result.Coverage = analysis.SkillCoverage(result.Tailored, result.Analysis)
	emitProgress(&opts, StepTailor, fmt.Sprintf("Tailored resume covers %d of %d required skills",
		len(result.Coverage.Matched), len(result.Coverage.Matched)+len(result.Coverage.Missing)), result.Coverage)

	if opts.SkipRender {
		return result, nil
	}

	pdf, err := p.Render(ctx, result.Tailored, opts.TemplateID)
	if err != nil {
		return result, fmt.Errorf("rendering failed: %w", err)
	}
	result.PDF = pdf
	emitProgress(&opts, StepRender, fmt.Sprintf("Rendered %d bytes", len(pdf)), nil)
	return result, nil
}

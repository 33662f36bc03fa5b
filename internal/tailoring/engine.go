// Package tailoring re-targets a Profile at a job analysis through the language model.
// Tailoring is best-effort: on any failure the caller gets a copy of the original profile.
package tailoring

import (
	"context"
	"encoding/json"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/sanitize"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/rs/zerolog"
)

// Engine tailors profiles through a JSON generator.
type Engine struct {
	gen     llm.JSONGenerator
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics sets the counter sink for fallbacks.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an Engine backed by gen.
func NewEngine(gen llm.JSONGenerator, opts ...Option) *Engine {
	e := &Engine{gen: gen, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tailor returns a new profile rewritten for the analysed job.
// The input profile is never modified. The tailored profile always keeps the original
// contact block, and any generation, validation or fabrication failure yields a clone of profile.
func (e *Engine) Tailor(ctx context.Context, profile *types.Profile, analysis *types.JobAnalysis) *types.Profile {
	if profile == nil {
		return nil
	}
	if analysis == nil {
		analysis = types.UnknownJobAnalysis()
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return e.fallback(profile, "marshal profile", err)
	}
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return e.fallback(profile, "marshal analysis", err)
	}

	prompt, err := prompts.Render(prompts.TailoringFile, prompts.TailorResumeKey, map[string]string{
		"ProfileJSON":  string(profileJSON),
		"AnalysisJSON": string(analysisJSON),
	})
	if err != nil {
		return e.fallback(profile, "prompt", err)
	}

	raw, err := e.gen.GenerateJSON(ctx, prompt)
	if err != nil {
		return e.fallback(profile, "generation failed", err)
	}

	sanitized, err := sanitize.Sanitize(raw)
	if err != nil {
		return e.fallback(profile, "invalid profile", err)
	}
	if reason := incompleteReply(raw, sanitized.Repairs); reason != "" {
		return e.fallback(profile, reason, nil)
	}

	tailored := sanitized.Profile
	tailored.ContactInfo = profile.ContactInfo

	if lost := droppedSections(profile, tailored); len(lost) > 0 {
		e.logger.Debug().Strs("sections", lost).Msg("tailored profile lost sections")
		return e.fallback(profile, "sections dropped", nil)
	}

	if violations := CheckFabrication(profile, tailored); len(violations) > 0 {
		e.logger.Debug().Strs("violations", violations).Msg("tailored profile introduced new facts")
		return e.fallback(profile, "fabrication", nil)
	}

	if n := len(sanitized.Repairs); n > 0 {
		e.metrics.Add(observability.SanitizerRepairs, int64(n))
	}
	return tailored
}

// incompleteReply reports why a generated reply is not a whole profile, or "" when it is.
// Sanitize turns any object into a Profile, so these replies are rejected here.
func incompleteReply(raw any, repairs []sanitize.Repair) string {
	root, _ := raw.(map[string]any)
	if len(root) == 0 {
		return "empty reply"
	}
	if _, ok := root["error"]; ok {
		return "error reply"
	}
	for _, r := range repairs {
		if r.Rule == sanitize.RuleContactInfoSynthesized {
			return "reply is not a profile"
		}
	}
	return ""
}

// droppedSections lists the sections populated in original that tailored left empty.
// Tailoring may trim entries but never remove a whole section.
func droppedSections(original, tailored *types.Profile) []string {
	var lost []string
	check := func(name string, before, after int) {
		if before > 0 && after == 0 {
			lost = append(lost, name)
		}
	}
	check("education", len(original.Education), len(tailored.Education))
	check("experience", len(original.Experience), len(tailored.Experience))
	check("projects", len(original.Projects), len(tailored.Projects))
	check("skills", len(original.Skills), len(tailored.Skills))
	check("certifications", len(original.Certifications), len(tailored.Certifications))
	check("languages", len(original.Languages), len(tailored.Languages))
	return lost
}

func (e *Engine) fallback(profile *types.Profile, reason string, err error) *types.Profile {
	e.metrics.Inc(observability.TailoringFallback)
	e.logger.Warn().Err(err).Str("reason", reason).Msg("tailoring fell back to original profile")
	return profile.Clone()
}

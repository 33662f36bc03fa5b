package rendering

import (
	"context"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/rs/zerolog"
)

// Compiler turns LaTeX source into PDF bytes.
type Compiler interface {
	Compile(ctx context.Context, source string) ([]byte, error)
}

// Renderer renders profiles through a TemplateStore and a Compiler.
type Renderer struct {
	store    *TemplateStore
	compiler Compiler
	logger   zerolog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the renderer logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// NewRenderer creates a Renderer. compiler may be nil when only RenderLaTeX is used.
func NewRenderer(store *TemplateStore, compiler Compiler, opts ...Option) *Renderer {
	r := &Renderer{store: store, compiler: compiler, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderLaTeX executes the template with the profile and returns the LaTeX source.
// Unknown template ids fail with *TemplateError.
func (r *Renderer) RenderLaTeX(profile *types.Profile, templateID string) (string, error) {
	if profile == nil {
		return "", &RenderError{Message: "profile is required"}
	}
	tmpl, err := r.store.Get(templateID)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, profile); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return result.String(), nil
}

// Render produces the compiled PDF for the profile.
// Compilation failures are returned unchanged from the Compiler.
func (r *Renderer) Render(ctx context.Context, profile *types.Profile, templateID string) ([]byte, error) {
	source, err := r.RenderLaTeX(profile, templateID)
	if err != nil {
		return nil, err
	}
	if r.compiler == nil {
		return nil, &RenderError{Message: "no compiler configured"}
	}

	r.logger.Debug().Str("template", templateID).Int("bytes", len(source)).Msg("compiling resume")
	return r.compiler.Compile(ctx, source)
}

// TemplateIDs lists the ids accepted by Render, sorted.
func (r *Renderer) TemplateIDs() []string {
	return r.store.IDs()
}

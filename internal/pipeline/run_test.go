package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/extraction/extractiontest"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routingGenerator answers each prompt kind with a fixed value.
type routingGenerator struct {
	mu       sync.Mutex
	parse    any
	analysis any
	tailor   any
	tailErr  error
	prompts  []string
}

func (g *routingGenerator) GenerateJSON(_ context.Context, prompt string) (any, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	switch {
	case strings.Contains(prompt, "Tailor the resume"):
		return g.tailor, g.tailErr
	case strings.Contains(prompt, "expert resume parser"):
		return g.parse, nil
	default:
		return g.analysis, nil
	}
}

type fakeCompiler struct {
	sources []string
}

func (f *fakeCompiler) Compile(_ context.Context, source string) ([]byte, error) {
	f.sources = append(f.sources, source)
	return []byte("%PDF-1.4 fake"), nil
}

type failingFetcher struct{}

func (failingFetcher) Fetch(_ context.Context, url string) (*fetch.JobPage, error) {
	return nil, &fetch.Error{URL: url, Message: "HTTP status 404"}
}

func parsedProfile() map[string]any {
	return map[string]any{
		"contact_info": map[string]any{"name": "Ada Lovelace", "email": "ada@example.com", "linkedin": "linkedin.com/in/ada"},
		"experience": []any{map[string]any{
			"company":      "Analytical Engines",
			"position":     "Engineer",
			"description":  []any{"Built ETL jobs in Python"},
			"technologies": []any{"Python", "AWS"},
		}},
		"skills": []any{map[string]any{"category": "Languages", "items": []any{"Go", "Python"}}},
	}
}

func newPipeline(t *testing.T, gen llm.JSONGenerator, compiler rendering.Compiler, opts ...Option) *Pipeline {
	t.Helper()
	store, err := rendering.NewTemplateStore("")
	require.NoError(t, err)
	return New(gen, rendering.NewRenderer(store, compiler), opts...)
}

func TestRun_EndToEnd(t *testing.T) {
	tailored := parsedProfile()
	tailored["summary"] = "Python and AWS data engineer."
	tailored["skills"] = []any{map[string]any{"category": "Languages", "skills": []any{"Python", "Go"}}}

	gen := &routingGenerator{
		parse:    parsedProfile(),
		analysis: map[string]any{"role_type": "Data Engineer", "required_skills": []any{"Python", "AWS", "Spark"}},
		tailor:   tailored,
	}
	compiler := &fakeCompiler{}
	metrics := observability.NewMetrics()

	var mu sync.Mutex
	var steps []string
	result, err := newPipeline(t, gen, compiler, WithMetrics(metrics)).Run(context.Background(), RunOptions{
		ResumePDF:  extractiontest.ResumePDF("Ada Lovelace Engineer", "https://linkedin.com/in/ada"),
		Job:        types.JobDescription{RawText: "Senior Data Engineer ... Python ... AWS ... Spark"},
		TemplateID: "compact",
		OnProgress: func(e ProgressEvent) {
			mu.Lock()
			steps = append(steps, e.Step)
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://linkedin.com/in/ada", result.Profile.ContactInfo.LinkedIn)
	assert.NotEmpty(t, result.Repairs)
	assert.Equal(t, []string{"Python", "AWS", "Spark"}, result.Analysis.RequiredSkills)
	assert.Equal(t, "Python and AWS data engineer.", result.Tailored.Summary)
	assert.Equal(t, result.Profile.ContactInfo, result.Tailored.ContactInfo)
	assert.Equal(t, []string{"Python", "AWS"}, result.Coverage.Matched)
	assert.Equal(t, []string{"Spark"}, result.Coverage.Missing)
	assert.Equal(t, []byte("%PDF-1.4 fake"), result.PDF)

	require.Len(t, compiler.sources, 1)
	assert.Contains(t, compiler.sources[0], "Python and AWS data engineer.")
	assert.ElementsMatch(t, []string{StepParse, StepAnalyze, StepTailor, StepRender}, steps)
	assert.Zero(t, metrics.Get(observability.TailoringFallback))
}

func TestRun_TailoringFallbackKeepsProfile(t *testing.T) {
	gen := &routingGenerator{
		analysis: map[string]any{"role_type": "SRE"},
		tailErr:  &llm.GatewayError{Kind: llm.KindParse, Reason: "not json"},
	}
	profile := &types.Profile{
		ContactInfo: types.ContactInfo{Name: "Ada Lovelace", Email: "ada@example.com"},
		Skills:      []types.SkillCategory{{Category: "Languages", Skills: []string{"Go"}}},
	}
	metrics := observability.NewMetrics()

	result, err := newPipeline(t, gen, &fakeCompiler{}, WithMetrics(metrics)).Run(context.Background(), RunOptions{
		Profile:    profile,
		Job:        types.JobDescription{RawText: "SRE"},
		SkipRender: true,
	})
	require.NoError(t, err)

	assert.Equal(t, profile, result.Tailored)
	assert.NotSame(t, profile, result.Tailored)
	assert.Nil(t, result.PDF)
	assert.Equal(t, int64(1), metrics.Get(observability.TailoringFallback))
}

func TestRun_AnalysisFetchFailureIsAbsorbed(t *testing.T) {
	gen := &routingGenerator{tailor: "garbage"}
	profile := &types.Profile{ContactInfo: types.ContactInfo{Name: "Ada", Email: "ada@example.com"}}

	result, err := newPipeline(t, gen, &fakeCompiler{}, WithFetcher(failingFetcher{})).Run(context.Background(), RunOptions{
		Profile:    profile,
		Job:        types.JobDescription{URL: "https://jobs.example.com/404"},
		SkipRender: true,
	})
	require.NoError(t, err)
	assert.Equal(t, types.UnknownJobAnalysis(), result.Analysis)
}

func TestRun_ParseFailureIsReturned(t *testing.T) {
	gen := &routingGenerator{analysis: map[string]any{"role_type": "SRE"}}

	_, err := newPipeline(t, gen, &fakeCompiler{}).Run(context.Background(), RunOptions{
		ResumePDF: []byte("not a pdf"),
		Job:       types.JobDescription{RawText: "SRE"},
	})

	var extractionErr *extraction.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestRun_UnknownTemplate(t *testing.T) {
	gen := &routingGenerator{tailor: "garbage"}
	profile := &types.Profile{ContactInfo: types.ContactInfo{Name: "Ada", Email: "ada@example.com"}}

	result, err := newPipeline(t, gen, &fakeCompiler{}).Run(context.Background(), RunOptions{
		Profile:    profile,
		Job:        types.JobDescription{RawText: "SRE"},
		TemplateID: "fancy",
	})

	var templateErr *rendering.TemplateError
	require.ErrorAs(t, err, &templateErr)
	require.NotNil(t, result)
	assert.NotNil(t, result.Tailored)
}

func TestRun_RequiresResume(t *testing.T) {
	_, err := newPipeline(t, &routingGenerator{}, nil).Run(context.Background(), RunOptions{})
	assert.Error(t, err)
}

func TestRender_NotConfigured(t *testing.T) {
	_, err := New(&routingGenerator{}, nil).Render(context.Background(), &types.Profile{}, "")
	var renderErr *rendering.RenderError
	assert.ErrorAs(t, err, &renderErr)
}

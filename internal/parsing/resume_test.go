package parsing

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/extraction/extractiontest"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/sanitize"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	value  any
	err    error
	prompt string
}

func (s *stubGenerator) GenerateJSON(_ context.Context, prompt string) (any, error) {
	s.prompt = prompt
	return s.value, s.err
}

func TestParsePDF(t *testing.T) {
	gen := &stubGenerator{value: map[string]any{
		"contact_info": map[string]any{"name": "Jane Doe", "email": "jane@example.com", "github": "github.com/janedoe"},
		"skills":       []any{map[string]any{"category": "Languages", "items": []any{"Go"}}},
	}}
	metrics := observability.NewMetrics()
	parser := NewParser(gen, WithMetrics(metrics))

	result, err := parser.ParsePDF(context.Background(), extractiontest.ResumePDF("Jane Doe Software Engineer", "https://github.com/janedoe"))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", result.Profile.ContactInfo.Name)
	assert.Equal(t, "https://github.com/janedoe", result.Profile.ContactInfo.GitHub)
	assert.Equal(t, []string{"Go"}, result.Profile.Skills[0].Skills)
	assert.NotEmpty(t, result.Repairs)
	assert.Equal(t, int64(len(result.Repairs)), metrics.Get(observability.SanitizerRepairs))

	require.NotNil(t, result.Document)
	assert.Equal(t, []string{"https://github.com/janedoe"}, result.Document.Links)

	// The prompt carries both the page text and the inline link marker.
	assert.Contains(t, gen.prompt, "Jane Doe Software Engineer")
	assert.Contains(t, gen.prompt, extraction.LinkMarker+" https://github.com/janedoe")
	assert.NotContains(t, gen.prompt, "{{.")
}

func TestParsePDF_CorruptDocument(t *testing.T) {
	gen := &stubGenerator{}
	_, err := NewParser(gen).ParsePDF(context.Background(), []byte("not a pdf"))

	var extractionErr *extraction.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Empty(t, gen.prompt, "model must not be called for unreadable documents")
}

func TestParseText_GatewayFailure(t *testing.T) {
	gwErr := &llm.GatewayError{Kind: llm.KindUnavailable, Reason: "no credentials"}
	_, err := NewParser(&stubGenerator{err: gwErr}).ParseText(context.Background(), "resume")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.True(t, llm.IsUnavailable(err))
	assert.True(t, errors.Is(err, gwErr))
}

func TestParseText_UnrepairableOutput(t *testing.T) {
	_, err := NewParser(&stubGenerator{value: []any{"not", "a", "profile"}}).ParseText(context.Background(), "resume")

	var schemaErr *sanitize.SchemaValidationError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestParseText_DefaultsApplied(t *testing.T) {
	result, err := NewParser(&stubGenerator{value: map[string]any{}}).ParseText(context.Background(), "resume")
	require.NoError(t, err)
	assert.Equal(t, types.PlaceholderName, result.Profile.ContactInfo.Name)
	assert.Nil(t, result.Document)
}

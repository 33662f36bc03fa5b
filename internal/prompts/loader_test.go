package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(ParsingFile, ParseResumeKey)
	require.NoError(t, err)
	assert.Contains(t, prompt, "expert resume parser")
	assert.Contains(t, prompt, "{{.ResumeText}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(TailoringFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
}

func TestFormat_MissingKeyKept(t *testing.T) {
	assert.Equal(t, "Hello {{.Name}}", Format("Hello {{.Name}}", map[string]string{}))
}

func TestFormat_ValuesNotRescanned(t *testing.T) {
	// Resume text may itself contain placeholder-like sequences.
	data := map[string]string{
		"ResumeText": "literal {{.Other}}",
		"Other":      "SHOULD NOT APPEAR",
	}
	assert.Equal(t, "text: literal {{.Other}}", Format("text: {{.ResumeText}}", data))
}

func TestRender_Tailoring(t *testing.T) {
	prompt, err := Render(TailoringFile, TailorResumeKey, map[string]string{
		"ProfileJSON":  `{"summary": "x"}`,
		"AnalysisJSON": `{"role_type": "y"}`,
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, `{"summary": "x"}`)
	assert.Contains(t, prompt, `{"role_type": "y"}`)
	assert.Contains(t, prompt, "Do NOT invent information")
	assert.NotContains(t, prompt, "{{.")
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List(ParsingFile)
	require.NoError(t, err)
	assert.Equal(t, []string{ParseResumeKey}, keys)
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get(ParsingFile, ParseResumeKey)
	require.NoError(t, err)
	prompt2, err := Get(ParsingFile, ParseResumeKey)
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}

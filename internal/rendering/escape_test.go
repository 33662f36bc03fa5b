package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain text", "Led a team of five engineers", "Led a team of five engineers"},
		{"company name", "AT&T Labs", `AT\&T Labs`},
		{"metric", "Cut p99 latency by 40%", `Cut p99 latency by 40\%`},
		{"revenue", "Closed $2M in ARR", `Closed \$2M in ARR`},
		{"language", "C# and F#", `C\# and F\#`},
		{"identifier", "feature_flags", `feature\_flags`},
		{"adjacent reserved", "50%_{x}", `50\%\_\{x\}`},
		{"windows path", `C:\tools`, `C:\textbackslash{}tools`},
		{"accents and greek", "Zürich résumé, λ calculus", "Zürich résumé, λ calculus"},
		{"slashes and dots", "CI/CD at 99.9 uptime", "CI/CD at 99.9 uptime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscapeLaTeX(tt.input))
		})
	}
}

func TestEscapeValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{"string", "R&D", `R\&D`},
		{"int", 42, 42},
		{"bool", true, true},
		{"nil", nil, nil},
		{"slice", []string{"a_b"}, []string{"a_b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscapeValue(tt.input))
		})
	}
}

func TestEscapeLaTeX_EachReservedCharacter(t *testing.T) {
	expected := map[string]string{
		"&": `\&`,
		"%": `\%`,
		"$": `\$`,
		"#": `\#`,
		"_": `\_`,
		"{": `\{`,
		"}": `\}`,
		"~": `\textasciitilde{}`,
		"^": `\textasciicircum{}`,
		`\`: `\textbackslash{}`,
	}
	for in, out := range expected {
		assert.Equal(t, out, EscapeLaTeX(in), in)
	}
}

func TestEscapeLaTeX_NotIdempotent(t *testing.T) {
	once := EscapeLaTeX("50%")
	assert.NotEqual(t, once, EscapeLaTeX(once))
}

func TestEscapeURL(t *testing.T) {
	assert.Equal(t, `https://example.com/a\%20b\#top`, EscapeURL("https://example.com/a%20b#top"))
	assert.Equal(t, "https://github.com/ada_l/~x", EscapeURL("https://github.com/ada_l/~x"))
}

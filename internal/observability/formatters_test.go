package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/resume-tailor/internal/sanitize"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := &types.Profile{
		ContactInfo: types.ContactInfo{Name: "Ada Lovelace", Email: "ada@example.com", GitHub: "https://github.com/ada"},
		Experience: []types.ExperienceItem{
			{Company: "Acme Corp", Position: "Senior Engineer", Description: []string{"a", "b"}},
		},
		Skills: []types.SkillCategory{{Category: "Languages", Skills: []string{"Go", "Python"}}},
	}

	p.PrintProfile("PARSED PROFILE", profile)
	output := buf.String()

	assert.Contains(t, output, "PARSED PROFILE")
	assert.Contains(t, output, "Ada Lovelace")
	assert.Contains(t, output, "https://github.com/ada")
	assert.Contains(t, output, "Senior Engineer @ Acme Corp (2 bullets)")
	assert.Contains(t, output, "Languages: Go, Python")
}

func TestPrintProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProfile("PROFILE", nil)
	assert.Empty(t, buf.String())
}

func TestPrintJobAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	analysis := types.UnknownJobAnalysis()
	analysis.RoleType = "Backend Engineer"
	analysis.RequiredSkills = []string{"Go", "Kubernetes", "PostgreSQL", "gRPC", "AWS", "Terraform"}
	analysis.Keywords = []types.Keyword{{Term: "distributed systems", Importance: 5}}

	p.PrintJobAnalysis(analysis)
	output := buf.String()

	assert.Contains(t, output, "JOB ANALYSIS")
	assert.Contains(t, output, "Backend Engineer")
	assert.Contains(t, output, "Kubernetes")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "distributed systems (5)")
	assert.NotContains(t, output, "Preferred Skills")
}

func TestPrintRepairs(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRepairs([]sanitize.Repair{
		{Rule: sanitize.RuleURLSchemeAdded, Path: "contact_info.linkedin", Detail: "linkedin.com/in/ada"},
		{Rule: sanitize.RuleListDefaulted, Path: "", Detail: "certifications"},
	})
	output := buf.String()

	assert.Contains(t, output, "SANITIZER REPAIRS")
	assert.Contains(t, output, "Applied 2 repairs")
	assert.Contains(t, output, sanitize.RuleURLSchemeAdded)
	assert.Contains(t, output, "(root)")
}

func TestPrintRepairs_None(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRepairs(nil)
	assert.Contains(t, buf.String(), "NO REPAIRS NEEDED")
}

func TestPrintCoverage(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCoverage([]string{"Python"}, []string{"AWS"}, 0.5)
	output := buf.String()

	assert.Contains(t, output, "Coverage: 50%")
	assert.Contains(t, output, "Matched:")
	assert.Contains(t, output, "AWS")
}

func TestPrintMetrics(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMetrics(NewMetrics())
	assert.Empty(t, buf.String())

	m := NewMetrics()
	m.Inc(AnalysisFallback)
	m.Add(SanitizerRepairs, 3)
	p.PrintMetrics(m)

	output := buf.String()
	assert.Contains(t, output, "COUNTERS")
	assert.Regexp(t, `analysis\.fallback\s+1`, output)
	assert.Regexp(t, `sanitizer\.repairs\s+3`, output)
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))
	output := buf.String()

	assert.Contains(t, output, "┌")
	assert.Contains(t, output, "└")
	assert.Contains(t, output, "...")
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}

package analysis

import (
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestSkillKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Golang to go", "Golang", "go"},
		{"GOLANG to go", "GOLANG", "go"},
		{"go lang to go", "go  lang", "go"},
		{"JS to javascript", "JS", "javascript"},
		{"K8s to kubernetes", "k8s", "kubernetes"},
		{"reactjs to react", "ReactJS", "react"},
		{"nodejs to node.js", "nodejs", "node.js"},
		{"Python lowercased", "Python", "python"},
		{"AWS lowercased", "AWS", "aws"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
		{"Multi-word kept", "Distributed Systems", "distributed systems"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SkillKey(tt.input))
		})
	}
}

func TestDedupeSkills(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"keeps order and first spelling", []string{"Go", "Python", "Golang", "python"}, []string{"Go", "Python"}},
		{"drops empty", []string{"", " ", "AWS"}, []string{"AWS"}},
		{"empty input", []string{}, []string{}},
		{"nil input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeSkills(tt.input))
		})
	}
}

func TestSkillCoverage(t *testing.T) {
	profile := &types.Profile{
		Summary: "Backend engineer working with Python services.",
		Skills:  []types.SkillCategory{{Category: "Languages", Skills: []string{"Golang"}}},
		Experience: []types.ExperienceItem{{
			Description:  []string{"Migrated batch jobs to AWS Lambda"},
			Technologies: []string{"k8s"},
		}},
	}
	analysis := &types.JobAnalysis{
		RequiredSkills: []string{"Go", "Kubernetes", "Python", "AWS", "Rust", "C"},
	}

	cov := SkillCoverage(profile, analysis)
	assert.Equal(t, []string{"Go", "Kubernetes", "Python", "AWS"}, cov.Matched)
	assert.Equal(t, []string{"Rust", "C"}, cov.Missing)
	assert.InDelta(t, 4.0/6.0, cov.Score, 1e-9)
}

func TestSkillCoverage_NothingRequired(t *testing.T) {
	cov := SkillCoverage(&types.Profile{}, types.UnknownJobAnalysis())
	assert.Equal(t, 1.0, cov.Score)
	assert.Empty(t, cov.Matched)
	assert.Empty(t, cov.Missing)

	assert.Equal(t, 1.0, SkillCoverage(nil, nil).Score)
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("built with go and rust", "go"))
	assert.False(t, containsWord("google cloud", "go"))
	assert.True(t, containsWord("c, c++ and java", "c"))
	assert.False(t, containsWord("anything", ""))
}

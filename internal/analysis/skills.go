package analysis

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// skillAliases maps common skill name variants to canonical names
var skillAliases = map[string]string{
	"golang":              "go",
	"go lang":             "go",
	"js":                  "javascript",
	"ts":                  "typescript",
	"k8s":                 "kubernetes",
	"react.js":            "react",
	"reactjs":             "react",
	"vue.js":              "vue",
	"vuejs":               "vue",
	"nodejs":              "node.js",
	"node":                "node.js",
	"postgres":            "postgresql",
	"amazon web services": "aws",
	"gcp":                 "google cloud",
}

// SkillKey returns the comparison key for a skill name: trimmed, lowercased and de-aliased.
func SkillKey(skill string) string {
	key := strings.ToLower(strings.Join(strings.Fields(skill), " "))
	if canonical, ok := skillAliases[key]; ok {
		return canonical
	}
	return key
}

// DedupeSkills drops empty and duplicate skills, keeping the first spelling seen.
func DedupeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		key := SkillKey(skill)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(skill))
	}
	return out
}

// Coverage reports how many of a job's required skills a profile shows.
type Coverage struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
	// Score is the matched share of required skills in [0, 1]; 1 when nothing is required.
	Score float64 `json:"score"`
}

// SkillCoverage matches the analysis' required skills against a profile.
// A skill matches when it is listed in a skill category or technology list,
// or when it is mentioned in the summary or an experience bullet.
func SkillCoverage(profile *types.Profile, analysis *types.JobAnalysis) Coverage {
	cov := Coverage{Matched: []string{}, Missing: []string{}, Score: 1}
	if profile == nil || analysis == nil {
		return cov
	}

	listed := make(map[string]bool)
	for _, cat := range profile.Skills {
		for _, s := range cat.Skills {
			listed[SkillKey(s)] = true
		}
	}
	for _, exp := range profile.Experience {
		for _, s := range exp.Technologies {
			listed[SkillKey(s)] = true
		}
	}
	for _, proj := range profile.Projects {
		for _, s := range proj.Technologies {
			listed[SkillKey(s)] = true
		}
	}

	var prose strings.Builder
	prose.WriteString(strings.ToLower(profile.Summary))
	for _, exp := range profile.Experience {
		for _, bullet := range exp.Description {
			prose.WriteString("\n")
			prose.WriteString(strings.ToLower(bullet))
		}
	}
	text := prose.String()

	required := DedupeSkills(analysis.RequiredSkills)
	for _, skill := range required {
		key := SkillKey(skill)
		if listed[key] || containsWord(text, strings.ToLower(strings.TrimSpace(skill))) {
			cov.Matched = append(cov.Matched, skill)
		} else {
			cov.Missing = append(cov.Missing, skill)
		}
	}
	if len(required) > 0 {
		cov.Score = float64(len(cov.Matched)) / float64(len(required))
	}
	return cov
}

// containsWord reports whether word occurs in text bounded by non-alphanumeric characters.
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; ; {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		if (i == 0 || !isWordByte(text[i-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

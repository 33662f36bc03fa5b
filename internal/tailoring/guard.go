package tailoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/analysis"
	"github.com/jonathan/resume-tailor/internal/types"
)

// CheckFabrication lists the facts in tailored that do not appear in original.
// Employers, positions, institutions, degrees, certifications and skills may be
// reordered, reworded in case, written under a known alias or dropped, but never added.
// Returns nil when tailored introduces nothing new.
func CheckFabrication(original, tailored *types.Profile) []string {
	if original == nil || tailored == nil {
		return nil
	}

	var violations []string
	check := func(kind string, keyOf func(string) string, before, after []string) {
		known := make(map[string]bool, len(before))
		for _, v := range before {
			known[keyOf(v)] = true
		}
		for _, v := range after {
			key := keyOf(v)
			if key != "" && !known[key] {
				violations = append(violations, fmt.Sprintf("%s %q", kind, v))
			}
		}
	}

	check("employer", factKey, companies(original), companies(tailored))
	check("position", factKey, positions(original), positions(tailored))
	check("institution", factKey, institutions(original), institutions(tailored))
	check("degree", factKey, degrees(original), degrees(tailored))
	check("certification", factKey, original.Certifications, tailored.Certifications)
	// Skills compare by alias so "Golang" may be written as "Go".
	check("skill", analysis.SkillKey, allSkills(original), listedSkills(tailored))

	if len(violations) == 0 {
		return nil
	}
	return violations
}

func factKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func companies(p *types.Profile) []string {
	out := make([]string, 0, len(p.Experience))
	for _, e := range p.Experience {
		out = append(out, e.Company)
	}
	return out
}

func positions(p *types.Profile) []string {
	out := make([]string, 0, len(p.Experience))
	for _, e := range p.Experience {
		out = append(out, e.Position)
	}
	return out
}

func institutions(p *types.Profile) []string {
	out := make([]string, 0, len(p.Education))
	for _, e := range p.Education {
		out = append(out, e.Institution)
	}
	return out
}

func degrees(p *types.Profile) []string {
	out := make([]string, 0, len(p.Education))
	for _, e := range p.Education {
		out = append(out, e.Degree)
	}
	return out
}

func listedSkills(p *types.Profile) []string {
	var out []string
	for _, c := range p.Skills {
		out = append(out, c.Skills...)
	}
	return out
}

// allSkills includes technologies so a tailored skills list may surface them.
func allSkills(p *types.Profile) []string {
	out := listedSkills(p)
	for _, e := range p.Experience {
		out = append(out, e.Technologies...)
	}
	for _, pr := range p.Projects {
		out = append(out, pr.Technologies...)
	}
	return out
}

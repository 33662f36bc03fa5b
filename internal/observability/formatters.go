// Package observability provides counters for absorbed failures and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-tailor/internal/sanitize"
	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// writeList writes at most limit items under a heading.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintProfile outputs a human-readable summary of a parsed or tailored profile.
func (p *Printer) PrintProfile(title string, profile *types.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", profile.ContactInfo.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", profile.ContactInfo.Email))
	for _, link := range []string{profile.ContactInfo.LinkedIn, profile.ContactInfo.GitHub, profile.ContactInfo.Website} {
		if link != "" {
			sb.WriteString(fmt.Sprintf("Link:     %s\n", link))
		}
	}
	sb.WriteString("\n")

	roles := make([]string, 0, len(profile.Experience))
	for _, e := range profile.Experience {
		roles = append(roles, fmt.Sprintf("%s @ %s (%d bullets)", e.Position, e.Company, len(e.Description)))
	}
	writeList(&sb, "Experience", roles, maxItemsToShow)

	skills := make([]string, 0, len(profile.Skills))
	for _, c := range profile.Skills {
		skills = append(skills, fmt.Sprintf("%s: %s", c.Category, strings.Join(c.Skills, ", ")))
	}
	writeList(&sb, "Skills", skills, 3)

	sb.WriteString(fmt.Sprintf("Education: %d  Projects: %d  Certifications: %d",
		len(profile.Education), len(profile.Projects), len(profile.Certifications)))

	p.printBox(title, sb.String())
}

// PrintJobAnalysis outputs the extracted job requirements.
func (p *Printer) PrintJobAnalysis(analysis *types.JobAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:     %s\n", analysis.RoleType))
	sb.WriteString(fmt.Sprintf("Level:    %s\n", analysis.ExperienceLevel))
	sb.WriteString("\n")

	writeList(&sb, "Required Skills", analysis.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Preferred Skills", analysis.PreferredSkills, 3)

	keywords := make([]string, 0, len(analysis.Keywords))
	for _, k := range analysis.Keywords {
		keywords = append(keywords, fmt.Sprintf("%s (%d)", k.Term, k.Importance))
	}
	writeList(&sb, "Keywords", keywords, maxItemsToShow)

	p.printBox("JOB ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRepairs outputs the repairs the sanitizer applied to model output.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRepairs(repairs []sanitize.Repair) {
	if len(repairs) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO REPAIRS NEEDED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Applied %d repairs:\n\n", len(repairs)))
	for i, r := range repairs {
		location := r.Path
		if location == "" {
			location = "(root)"
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", r.Rule))
		sb.WriteString(fmt.Sprintf("  %s %s\n", location, r.Detail))
		if i < len(repairs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SANITIZER REPAIRS", sb.String())
}

// PrintCoverage outputs how well a profile covers the job's required skills.
func (p *Printer) PrintCoverage(matched, missing []string, score float64) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Coverage: %.0f%%\n\n", score*100))
	writeList(&sb, "Matched", matched, maxItemsToShow)
	writeList(&sb, "Missing", missing, maxItemsToShow)
	p.printBox("SKILL COVERAGE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMetrics outputs every non-zero counter.
func (p *Printer) PrintMetrics(m *Metrics) {
	snapshot := m.Snapshot()
	if len(snapshot) == 0 {
		return
	}

	var sb strings.Builder
	for i, name := range m.Names() {
		sb.WriteString(fmt.Sprintf("%-28s %d", name, snapshot[name]))
		if i < len(snapshot)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("COUNTERS", sb.String())
}

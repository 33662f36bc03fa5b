package analysis

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/resume-tailor/internal/fetch"
)

var (
	whitespaceRun = regexp.MustCompile(`[\s\p{Z}\x{1c}-\x{1f}\x{85}]+`)
	htmlTag       = regexp.MustCompile(`(?i)<(html|body|div|p|ul|li|br|span|h[1-6]|section|article|main)\b[^>]*>`)
)

// CleanText normalizes job description text: HTML is reduced to its text,
// whitespace runs (Unicode spaces included) collapse to single spaces, and non-printable
// characters are dropped.
func CleanText(text string) string {
	if htmlTag.MatchString(text) {
		if extracted, err := fetch.ExtractMainText(text, fetch.JobPostingSelectors()); err == nil {
			text = extracted
		}
	}

	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, text)
}

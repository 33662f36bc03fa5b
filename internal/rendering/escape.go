// Package rendering turns a Profile into LaTeX source and, through a compiler, into a PDF.
package rendering

import "strings"

// EscapeLaTeX escapes special LaTeX characters in text
// Special characters: \ { } $ & % # ^ _ ~
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{':
			result.WriteString(`\{`)
		case '}':
			result.WriteString(`\}`)
		case '$':
			result.WriteString(`\$`)
		case '&':
			result.WriteString(`\&`)
		case '%':
			result.WriteString(`\%`)
		case '#':
			result.WriteString(`\#`)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '_':
			result.WriteString(`\_`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// EscapeValue escapes strings and passes every other value through unchanged.
// It is the "escape" template function.
func EscapeValue(v any) any {
	if s, ok := v.(string); ok {
		return EscapeLaTeX(s)
	}
	return v
}

// EscapeURL escapes the characters that break a \href target.
// hyperref reads ~ _ and ^ literally inside the URL argument, so those are left alone.
func EscapeURL(url string) string {
	r := strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`, `%`, `\%`, `#`, `\#`, `&`, `\&`)
	return r.Replace(url)
}

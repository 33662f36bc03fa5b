package sanitize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

// defaultImportance is used for keywords given without a usable rating.
const defaultImportance = 3

var analysisKeys = []string{
	"role_type", "keywords", "required_skills", "preferred_skills", "experience_level", "key_responsibilities",
}

// SanitizeJobAnalysis coerces a decoded JSON value into a JobAnalysis.
// A value that is not an object, or that carries none of the analysis fields, is rejected.
func SanitizeJobAnalysis(raw any) (*types.JobAnalysis, []Repair, error) {
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, &SchemaValidationError{Message: fmt.Sprintf("job analysis root must be an object, got %T", raw)}
	}
	if !hasAnyKey(root, analysisKeys) {
		return nil, nil, &SchemaValidationError{Message: "job analysis carries no recognized fields"}
	}

	c := &coercer{}
	analysis := &types.JobAnalysis{
		RoleType:            c.scalarOrUnknown(root, "role_type"),
		Keywords:            c.keywords(root),
		RequiredSkills:      c.strList(root, "required_skills", ""),
		PreferredSkills:     c.strList(root, "preferred_skills", ""),
		ExperienceLevel:     c.scalarOrUnknown(root, "experience_level"),
		KeyResponsibilities: c.strList(root, "key_responsibilities", ""),
	}

	if err := analysis.Validate(); err != nil {
		return nil, nil, &SchemaValidationError{Message: "job analysis failed validation after repair", Cause: err}
	}
	if err := schemas.ValidateJobAnalysis(analysis); err != nil {
		return nil, nil, &SchemaValidationError{Message: "job analysis does not match schema after repair", Cause: err}
	}
	return analysis, c.repairs, nil
}

func hasAnyKey(obj map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func (c *coercer) scalarOrUnknown(obj map[string]any, key string) string {
	if s := c.str(obj, key, ""); s != "" {
		return s
	}
	c.record(RuleScalarDefaulted, key, types.UnknownValue)
	return types.UnknownValue
}

// keywords accepts objects or bare strings; bare strings get the default importance.
func (c *coercer) keywords(root map[string]any) []types.Keyword {
	const path = "keywords"
	out := []types.Keyword{}

	list, ok := root[path].([]any)
	if !ok {
		if root[path] != nil {
			c.record(RuleListDefaulted, path, fmt.Sprintf("expected list, got %T", root[path]))
		} else {
			c.record(RuleListDefaulted, path, "")
		}
		return out
	}

	for i, item := range list {
		p := index(path, i)
		switch kw := item.(type) {
		case string:
			term := strings.TrimSpace(kw)
			if term == "" {
				c.record(RuleEntryDropped, p, "empty")
				continue
			}
			out = append(out, types.Keyword{Term: term, Importance: defaultImportance})
		case map[string]any:
			term := c.str(kw, "term", p)
			if term == "" {
				c.record(RuleEntryDropped, p, "missing term")
				continue
			}
			out = append(out, types.Keyword{
				Term:       term,
				Importance: c.importance(kw, p),
				Category:   c.str(kw, "category", p),
			})
		default:
			c.record(RuleEntryDropped, p, fmt.Sprintf("expected object, got %T", item))
		}
	}
	return out
}

// importance reads a 1-5 rating, clamping out-of-range values.
func (c *coercer) importance(obj map[string]any, path string) int {
	p := join(path, "importance")
	s, ok := scalarString(obj["importance"])
	if !ok {
		c.record(RuleScalarDefaulted, p, strconv.Itoa(defaultImportance))
		return defaultImportance
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		c.record(RuleScalarDefaulted, p, strconv.Itoa(defaultImportance))
		return defaultImportance
	}

	n := int(f + 0.5)
	switch {
	case n < 1:
		c.record(RuleImportanceClamped, p, s)
		return 1
	case n > 5:
		c.record(RuleImportanceClamped, p, s)
		return 5
	}
	return n
}

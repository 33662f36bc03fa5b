package sanitize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Repair rule identifiers
const (
	RuleSkillsKeyRemap         = "skills_key_remap"
	RuleSkillsMapExpanded      = "skills_map_expanded"
	RuleContactInfoSynthesized = "contact_info_synthesized"
	RuleNameDefaulted          = "name_defaulted"
	RuleEmailDefaulted         = "email_defaulted"
	RuleURLNulled              = "url_nulled"
	RuleURLSchemeAdded         = "url_scheme_added"
	RuleURLTrimmed             = "url_trimmed"
	RuleListDefaulted          = "list_defaulted"
	RuleStringToList           = "string_to_list"
	RuleObjectToList           = "object_to_list"
	RuleScalarToString         = "scalar_to_string"
	RuleValueDropped           = "value_dropped"
	RuleEntryDropped           = "entry_dropped"
	RuleScalarDefaulted        = "scalar_defaulted"
	RuleImportanceClamped      = "importance_clamped"
)

// Repair records one change applied while coercing generation output.
type Repair struct {
	Rule   string `json:"rule"`
	Path   string `json:"path"`
	Detail string `json:"detail,omitempty"`
}

// coercer walks a decoded JSON value and collects repairs.
type coercer struct {
	repairs []Repair
}

func (c *coercer) record(rule, path, detail string) {
	c.repairs = append(c.repairs, Repair{Rule: rule, Path: path, Detail: detail})
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// scalarString renders JSON scalars as text. ok is false for objects and arrays.
func scalarString(v any) (s string, ok bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// str reads a string field. Absent and null yield "" without a repair.
func (c *coercer) str(obj map[string]any, key, path string) string {
	v, present := obj[key]
	if !present || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	if s, ok := scalarString(v); ok {
		c.record(RuleScalarToString, join(path, key), s)
		return s
	}
	c.record(RuleValueDropped, join(path, key), fmt.Sprintf("expected text, got %T", v))
	return ""
}

// boolean reads a bool field, accepting "true"/"yes" style strings.
func (c *coercer) boolean(obj map[string]any, key, path string) bool {
	switch t := obj[key].(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if s == "yes" || s == "present" {
			return true
		}
		b, _ := strconv.ParseBool(s)
		return b
	}
	return false
}

// strList reads a list of strings. A bare string becomes a one-element list,
// or one element per line when it spans several lines.
func (c *coercer) strList(obj map[string]any, key, path string) []string {
	p := join(path, key)
	v, present := obj[key]
	if !present || v == nil {
		c.record(RuleListDefaulted, p, "")
		return []string{}
	}

	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for i, item := range t {
			s, ok := scalarString(item)
			if !ok || item == nil {
				c.record(RuleEntryDropped, index(p, i), fmt.Sprintf("expected text, got %T", item))
				continue
			}
			if _, isString := item.(string); !isString {
				c.record(RuleScalarToString, index(p, i), s)
			}
			s = strings.TrimSpace(s)
			if s == "" {
				c.record(RuleEntryDropped, index(p, i), "empty")
				continue
			}
			out = append(out, s)
		}
		return out
	case string:
		out := splitLines(t)
		c.record(RuleStringToList, p, fmt.Sprintf("%d item(s)", len(out)))
		return out
	}

	if s, ok := scalarString(v); ok {
		c.record(RuleStringToList, p, s)
		return []string{s}
	}
	c.record(RuleListDefaulted, p, fmt.Sprintf("expected list, got %T", v))
	return []string{}
}

// splitLines splits bullet text into trimmed non-empty lines with list markers removed.
func splitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// objList reads a list of objects. Non-object entries are dropped; a single object is wrapped.
func (c *coercer) objList(obj map[string]any, key, path string) []map[string]any {
	p := join(path, key)
	v, present := obj[key]
	if !present || v == nil {
		c.record(RuleListDefaulted, p, "")
		return nil
	}

	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for i, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				c.record(RuleEntryDropped, index(p, i), fmt.Sprintf("expected object, got %T", item))
				continue
			}
			out = append(out, m)
		}
		return out
	case map[string]any:
		c.record(RuleObjectToList, p, "")
		return []map[string]any{t}
	}
	c.record(RuleListDefaulted, p, fmt.Sprintf("expected list, got %T", v))
	return nil
}

var nullURLValues = map[string]bool{"": true, "n/a": true, "na": true, "none": true, "null": true}

// url normalizes a link field. The result is an absolute http(s) URL or "".
func (c *coercer) url(obj map[string]any, key, path string) string {
	p := join(path, key)
	v, present := obj[key]
	if !present || v == nil {
		return ""
	}
	raw, ok := v.(string)
	if !ok {
		c.record(RuleURLNulled, p, fmt.Sprintf("expected text, got %T", v))
		return ""
	}

	trimmed := strings.TrimSpace(raw)
	if nullURLValues[strings.ToLower(trimmed)] {
		if raw != "" {
			c.record(RuleURLNulled, p, raw)
		}
		return ""
	}
	if trimmed != raw {
		c.record(RuleURLTrimmed, p, "")
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if !validURL(trimmed) {
			c.record(RuleURLNulled, p, trimmed)
			return ""
		}
		return trimmed
	}

	if strings.Contains(trimmed, ".") && !strings.ContainsAny(trimmed, " \t\r\n") {
		candidate := "https://" + trimmed
		if validURL(candidate) {
			c.record(RuleURLSchemeAdded, p, candidate)
			return candidate
		}
	}

	c.record(RuleURLNulled, p, trimmed)
	return ""
}

func validURL(s string) bool {
	return validate.Var(s, "http_url") == nil
}

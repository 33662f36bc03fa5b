// Package sanitize coerces loosely structured generation output into valid typed records.
// Coercion is total: shape mismatches are repaired and reported, never raised.
package sanitize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

var validate = validator.New()

// defaultSkillCategory labels a skill group that arrived without a category.
const defaultSkillCategory = "Skills"

// Result is a sanitized profile together with the repairs that produced it.
type Result struct {
	Profile *types.Profile
	Repairs []Repair
}

// Sanitize coerces a decoded JSON value into a Profile.
// Only a non-object root or a non-object contact_info is fatal.
func Sanitize(raw any) (*Result, error) {
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, &SchemaValidationError{Message: fmt.Sprintf("profile root must be an object, got %T", raw)}
	}

	c := &coercer{}
	profile := &types.Profile{}

	contact, err := c.contactInfo(root)
	if err != nil {
		return nil, err
	}
	profile.ContactInfo = contact
	profile.Summary = c.str(root, "summary", "")

	for i, item := range c.objList(root, "education", "") {
		path := index("education", i)
		entry := types.EducationItem{
			Institution:  c.str(item, "institution", path),
			Degree:       c.str(item, "degree", path),
			FieldOfStudy: c.str(item, "field_of_study", path),
			StartDate:    c.str(item, "start_date", path),
			EndDate:      c.str(item, "end_date", path),
			GPA:          c.str(item, "gpa", path),
			Description:  c.str(item, "description", path),
		}
		if c.missing(path, "institution", entry.Institution, "degree", entry.Degree) {
			continue
		}
		profile.Education = append(profile.Education, entry)
	}

	for i, item := range c.objList(root, "experience", "") {
		path := index("experience", i)
		entry := types.ExperienceItem{
			Company:      c.str(item, "company", path),
			Position:     c.str(item, "position", path),
			Location:     c.str(item, "location", path),
			StartDate:    c.str(item, "start_date", path),
			EndDate:      c.str(item, "end_date", path),
			Current:      c.boolean(item, "current", path),
			Description:  c.strList(item, "description", path),
			Technologies: c.strList(item, "technologies", path),
		}
		if c.missing(path, "company", entry.Company, "position", entry.Position) {
			continue
		}
		profile.Experience = append(profile.Experience, entry)
	}

	for i, item := range c.objList(root, "projects", "") {
		path := index("projects", i)
		entry := types.ProjectItem{
			Name:         c.str(item, "name", path),
			Description:  c.str(item, "description", path),
			URL:          c.url(item, "url", path),
			Technologies: c.strList(item, "technologies", path),
		}
		if c.missing(path, "name", entry.Name, "description", entry.Description) {
			continue
		}
		profile.Projects = append(profile.Projects, entry)
	}

	skillsSrc := root
	if expanded, ok := c.expandSkillsMap(root); ok {
		skillsSrc = map[string]any{"skills": expanded}
	}
	for i, item := range c.objList(skillsSrc, "skills", "") {
		path := index("skills", i)
		if _, hasItems := item["items"]; hasItems {
			if _, hasSkills := item["skills"]; !hasSkills {
				c.record(RuleSkillsKeyRemap, path, "items -> skills")
				item = remapKey(item, "items", "skills")
			}
		}
		entry := types.SkillCategory{
			Category: c.str(item, "category", path),
			Skills:   c.strList(item, "skills", path),
		}
		if entry.Category == "" {
			// An unlabeled group with skills gets the default label.
			if len(entry.Skills) == 0 {
				c.record(RuleEntryDropped, path, "missing category")
				continue
			}
			c.record(RuleScalarDefaulted, join(path, "category"), defaultSkillCategory)
			entry.Category = defaultSkillCategory
		}
		profile.Skills = append(profile.Skills, entry)
	}

	profile.Certifications = c.strList(root, "certifications", "")
	profile.Languages = c.strList(root, "languages", "")
	profile.FillEmptyLists()

	if err := profile.Validate(); err != nil {
		return nil, &SchemaValidationError{Message: "profile failed validation after repair", Cause: err}
	}
	if err := schemas.ValidateProfile(profile); err != nil {
		return nil, &SchemaValidationError{Message: "profile does not match schema after repair", Cause: err}
	}

	return &Result{Profile: profile, Repairs: c.repairs}, nil
}

func (c *coercer) contactInfo(root map[string]any) (types.ContactInfo, error) {
	const path = "contact_info"

	var ci map[string]any
	switch v := root[path].(type) {
	case map[string]any:
		ci = v
	case nil:
		c.record(RuleContactInfoSynthesized, path, "")
		ci = map[string]any{}
	default:
		return types.ContactInfo{}, &SchemaValidationError{Message: fmt.Sprintf("contact_info must be an object, got %T", v)}
	}

	info := types.ContactInfo{
		Name:     c.str(ci, "name", path),
		LinkedIn: c.url(ci, "linkedin", path),
		GitHub:   c.url(ci, "github", path),
		Website:  c.url(ci, "website", path),
		Email:    c.str(ci, "email", path),
		Phone:    c.str(ci, "phone", path),
		Location: c.str(ci, "location", path),
	}

	if info.Name == "" {
		c.record(RuleNameDefaulted, join(path, "name"), types.PlaceholderName)
		info.Name = types.PlaceholderName
	}
	if info.Email == "" {
		c.record(RuleEmailDefaulted, join(path, "email"), "missing")
		info.Email = types.PlaceholderEmail
	} else if validate.Var(info.Email, "email") != nil {
		c.record(RuleEmailDefaulted, join(path, "email"), info.Email)
		info.Email = types.PlaceholderEmail
	}
	return info, nil
}

// missing reports whether any of the named required fields is blank and records
// the entry as dropped when one is. Pairs are given as name, value.
func (c *coercer) missing(path string, pairs ...string) bool {
	var blank []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			blank = append(blank, pairs[i])
		}
	}
	if len(blank) == 0 {
		return false
	}
	c.record(RuleEntryDropped, path, "missing "+strings.Join(blank, ", "))
	return true
}

// expandSkillsMap turns {"Languages": ["Go"]} into [{"category": "Languages", "skills": ["Go"]}].
// The input is left untouched.
func (c *coercer) expandSkillsMap(root map[string]any) ([]any, bool) {
	m, ok := root["skills"].(map[string]any)
	if !ok {
		return nil, false
	}
	// A single category object is wrapped by objList instead.
	if _, isCategory := m["category"]; isCategory {
		return nil, false
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]any, 0, len(keys))
	for _, k := range keys {
		list = append(list, map[string]any{"category": k, "skills": m[k]})
	}
	c.record(RuleSkillsMapExpanded, "skills", strings.Join(keys, ", "))
	return list, true
}

// remapKey returns a copy of obj with from renamed to to.
func remapKey(obj map[string]any, from, to string) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		if k == from {
			out[to] = v
			continue
		}
		out[k] = v
	}
	return out
}

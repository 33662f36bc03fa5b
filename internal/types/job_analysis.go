package types

import "slices"

// UnknownValue is the scalar used for analysis fields that could not be determined.
const UnknownValue = "Unknown"

// JobDescription is a job posting submitted for analysis.
// RawText takes precedence; URL is fetched only when RawText is empty.
type JobDescription struct {
	RawText string `json:"raw_text"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Keyword is a term extracted from a job description with a 1-5 importance rating.
type Keyword struct {
	Term       string `json:"term" validate:"required"`
	Importance int    `json:"importance" validate:"min=1,max=5"`
	Category   string `json:"category"`
}

// JobAnalysis is the structured requirement analysis of a job description.
// Every list field is always present; absence is an empty list, never null.
type JobAnalysis struct {
	RoleType            string    `json:"role_type" validate:"required"`
	Keywords            []Keyword `json:"keywords" validate:"dive"`
	RequiredSkills      []string  `json:"required_skills"`
	PreferredSkills     []string  `json:"preferred_skills"`
	ExperienceLevel     string    `json:"experience_level" validate:"required"`
	KeyResponsibilities []string  `json:"key_responsibilities"`
}

// UnknownJobAnalysis returns the fully populated analysis used when nothing could be extracted.
func UnknownJobAnalysis() *JobAnalysis {
	return &JobAnalysis{
		RoleType:            UnknownValue,
		Keywords:            []Keyword{},
		RequiredSkills:      []string{},
		PreferredSkills:     []string{},
		ExperienceLevel:     UnknownValue,
		KeyResponsibilities: []string{},
	}
}

// Validate checks the struct-level invariants of the analysis.
func (a *JobAnalysis) Validate() error {
	return validate.Struct(a)
}

// Clone returns a deep copy of the analysis.
func (a *JobAnalysis) Clone() *JobAnalysis {
	if a == nil {
		return nil
	}
	out := *a
	out.Keywords = slices.Clone(a.Keywords)
	out.RequiredSkills = slices.Clone(a.RequiredSkills)
	out.PreferredSkills = slices.Clone(a.PreferredSkills)
	out.KeyResponsibilities = slices.Clone(a.KeyResponsibilities)
	return &out
}

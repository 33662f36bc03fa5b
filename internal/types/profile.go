// Package types provides type definitions for structured data used throughout the resume-tailor system.
package types

import (
	"slices"

	"github.com/go-playground/validator/v10"
)

// PlaceholderName is the name used when a generated profile carries no candidate name.
const PlaceholderName = "Unknown Candidate"

// PlaceholderEmail is the address used when a generated profile carries no usable email.
const PlaceholderEmail = "missing@example.com"

var validate = validator.New()

// ContactInfo holds the candidate's identity and contact links.
// Link fields are either an absolute http(s) URL or empty (absent).
type ContactInfo struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty" validate:"omitempty,http_url"`
	GitHub   string `json:"github,omitempty" validate:"omitempty,http_url"`
	Website  string `json:"website,omitempty" validate:"omitempty,http_url"`
	Location string `json:"location,omitempty"`
}

// EducationItem is a single education entry.
type EducationItem struct {
	Institution  string `json:"institution" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	GPA          string `json:"gpa,omitempty"`
	Description  string `json:"description,omitempty"`
}

// ExperienceItem is a single position held at a company.
type ExperienceItem struct {
	Company      string   `json:"company" validate:"required"`
	Position     string   `json:"position" validate:"required"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Current      bool     `json:"current"`
	Description  []string `json:"description"`
	Technologies []string `json:"technologies"`
}

// ProjectItem is a personal or professional project.
type ProjectItem struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	URL          string   `json:"url,omitempty" validate:"omitempty,http_url"`
	Technologies []string `json:"technologies"`
}

// SkillCategory groups skills under a label such as "Languages" or "Cloud".
type SkillCategory struct {
	Category string   `json:"category" validate:"required"`
	Skills   []string `json:"skills"`
}

// Profile is the structured candidate resume.
// A Profile handed to a caller is treated as immutable; use Clone before changing anything.
type Profile struct {
	ContactInfo    ContactInfo      `json:"contact_info"`
	Summary        string           `json:"summary,omitempty"`
	Education      []EducationItem  `json:"education" validate:"dive"`
	Experience     []ExperienceItem `json:"experience" validate:"dive"`
	Projects       []ProjectItem    `json:"projects" validate:"dive"`
	Skills         []SkillCategory  `json:"skills" validate:"dive"`
	Certifications []string         `json:"certifications"`
	Languages      []string         `json:"languages"`
}

// Validate checks the struct-level invariants of the profile.
func (p *Profile) Validate() error {
	return validate.Struct(p)
}

// FillEmptyLists replaces every nil list with an empty one so the JSON form never carries null lists.
func (p *Profile) FillEmptyLists() {
	p.Education = nonNil(p.Education)
	p.Experience = nonNil(p.Experience)
	p.Projects = nonNil(p.Projects)
	p.Skills = nonNil(p.Skills)
	p.Certifications = nonNil(p.Certifications)
	p.Languages = nonNil(p.Languages)
	for i := range p.Experience {
		p.Experience[i].Description = nonNil(p.Experience[i].Description)
		p.Experience[i].Technologies = nonNil(p.Experience[i].Technologies)
	}
	for i := range p.Projects {
		p.Projects[i].Technologies = nonNil(p.Projects[i].Technologies)
	}
	for i := range p.Skills {
		p.Skills[i].Skills = nonNil(p.Skills[i].Skills)
	}
}

// Clone returns a deep copy that shares no slices with p.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.Education = slices.Clone(p.Education)
	out.Experience = slices.Clone(p.Experience)
	for i := range out.Experience {
		out.Experience[i].Description = slices.Clone(p.Experience[i].Description)
		out.Experience[i].Technologies = slices.Clone(p.Experience[i].Technologies)
	}
	out.Projects = slices.Clone(p.Projects)
	for i := range out.Projects {
		out.Projects[i].Technologies = slices.Clone(p.Projects[i].Technologies)
	}
	out.Skills = slices.Clone(p.Skills)
	for i := range out.Skills {
		out.Skills[i].Skills = slices.Clone(p.Skills[i].Skills)
	}
	out.Certifications = slices.Clone(p.Certifications)
	out.Languages = slices.Clone(p.Languages)
	return &out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

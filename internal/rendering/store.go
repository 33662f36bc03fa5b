package rendering

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/jonathan/resume-tailor/internal/types"
)

// DefaultTemplateID is the template used when a caller does not pick one.
const DefaultTemplateID = "default"

// Template delimiters. LaTeX braces make the usual {{ }} awkward to read.
const (
	leftDelim  = "(("
	rightDelim = "))"
)

//go:embed templates/*.tex
var builtinTemplates embed.FS

// TemplateStore holds parsed LaTeX templates keyed by id.
// Every template is parsed and trial-executed when it is added, so an id returned
// by IDs always renders.
type TemplateStore struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
}

// NewTemplateStore loads the built-in templates and, when dir is non-empty, every
// *.tex file in dir. A file in dir replaces a built-in template with the same id.
func NewTemplateStore(dir string) (*TemplateStore, error) {
	s := &TemplateStore{templates: make(map[string]*template.Template)}

	err := fs.WalkDir(builtinTemplates, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := builtinTemplates.ReadFile(path)
		if err != nil {
			return err
		}
		return s.Add(templateID(path), string(content))
	})
	if err != nil {
		return nil, err
	}

	if dir != "" {
		if err := s.LoadDir(dir); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// LoadDir adds every *.tex file in dir.
func (s *TemplateStore) LoadDir(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return &TemplateError{Message: fmt.Sprintf("template directory not found: %s", dir), Cause: err}
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.tex"))
	if err != nil {
		return &TemplateError{Message: fmt.Sprintf("invalid template directory: %s", dir), Cause: err}
	}

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return &TemplateError{Message: fmt.Sprintf("failed to read template file: %s", path), Cause: err}
		}
		if err := s.Add(templateID(path), string(content)); err != nil {
			return err
		}
	}
	return nil
}

// Add parses text as template id, replacing any existing template with that id.
func (s *TemplateStore) Add(id, text string) error {
	tmpl, err := template.New(id).Delims(leftDelim, rightDelim).Funcs(funcMap()).Parse(text)
	if err != nil {
		return &TemplateError{Message: fmt.Sprintf("failed to parse template %q", id), Cause: err}
	}
	if err := tmpl.Execute(io.Discard, sampleProfile()); err != nil {
		return &TemplateError{Message: fmt.Sprintf("template %q does not render a profile", id), Cause: err}
	}

	s.mu.Lock()
	s.templates[id] = tmpl
	s.mu.Unlock()
	return nil
}

// Get returns the template with the given id; an empty id selects DefaultTemplateID.
func (s *TemplateStore) Get(id string) (*template.Template, error) {
	if id == "" {
		id = DefaultTemplateID
	}
	s.mu.RLock()
	tmpl, ok := s.templates[id]
	s.mu.RUnlock()
	if !ok {
		return nil, &TemplateError{Message: fmt.Sprintf("unknown template id %q (available: %s)", id, strings.Join(s.IDs(), ", "))}
	}
	return tmpl, nil
}

// IDs returns the template ids in sorted order.
func (s *TemplateStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.templates))
	for id := range s.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func templateID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"escape":   EscapeValue,
		"url":      EscapeURL,
		"join":     joinEscaped,
		"notEmpty": notEmpty,
		"dates":    formatDates,
	}
}

// joinEscaped escapes each item and joins the non-blank ones with sep.
func joinEscaped(sep string, items []string) string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, EscapeLaTeX(item))
		}
	}
	return strings.Join(out, sep)
}

func notEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case []string:
		for _, s := range val {
			if strings.TrimSpace(s) != "" {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// formatDates renders a date range such as "2020-01 -- Present".
func formatDates(start, end string, current bool) string {
	if current {
		end = "Present"
	}
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return EscapeLaTeX(end)
	case end == "":
		return EscapeLaTeX(start)
	}
	return EscapeLaTeX(start) + " -- " + EscapeLaTeX(end)
}

// sampleProfile exercises every field a template may reference.
func sampleProfile() *types.Profile {
	return &types.Profile{
		ContactInfo: types.ContactInfo{
			Name:     "Sample Candidate",
			Email:    "sample@example.com",
			Phone:    "555-0100",
			LinkedIn: "https://linkedin.com/in/sample",
			GitHub:   "https://github.com/sample",
			Website:  "https://sample.example.com",
			Location: "Remote",
		},
		Summary:        "Summary",
		Education:      []types.EducationItem{{Institution: "University", Degree: "BSc", FieldOfStudy: "CS", GPA: "4.0"}},
		Experience:     []types.ExperienceItem{{Company: "Company", Position: "Engineer", Current: true, Description: []string{"Did things"}, Technologies: []string{"Go"}}},
		Projects:       []types.ProjectItem{{Name: "Project", Description: "Description", URL: "https://example.com", Technologies: []string{"Go"}}},
		Skills:         []types.SkillCategory{{Category: "Languages", Skills: []string{"Go"}}},
		Certifications: []string{"Certification"},
		Languages:      []string{"English"},
	}
}

// Package schemas validates structured artifacts against the embedded JSON Schemas.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Schema names accepted by Validate and ValidateFile
const (
	Profile     = "profile"
	JobAnalysis = "job_analysis"
)

//go:embed profile.schema.json
var profileSchema string

//go:embed job_analysis.schema.json
var jobAnalysisSchema string

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s validation failed:\n", ve.Schema)
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Names returns the embedded schema names.
func Names() []string {
	return []string{JobAnalysis, Profile}
}

// Source returns the raw JSON Schema text for name.
func Source(name string) (string, bool) {
	switch name {
	case Profile:
		return profileSchema, true
	case JobAnalysis:
		return jobAnalysisSchema, true
	}
	return "", false
}

func load() (map[string]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[string]*gojsonschema.Schema)
		for _, name := range Names() {
			src, _ := Source(name)
			schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
			if err != nil {
				compileErr = &SchemaLoadError{Path: name, Message: "invalid embedded schema", Cause: err}
				return
			}
			compiled[name] = schema
		}
	})
	return compiled, compileErr
}

// Validate checks a Go value against the named schema.
// The value is marshalled to JSON first, so structs are validated by their JSON form.
func Validate(name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s validation: %w", name, err)
	}
	return ValidateBytes(name, data)
}

// ValidateBytes checks a JSON document against the named schema.
func ValidateBytes(name string, document []byte) error {
	all, err := load()
	if err != nil {
		return err
	}
	schema, ok := all[name]
	if !ok {
		return &SchemaLoadError{Path: name, Message: "unknown schema"}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &SchemaLoadError{Path: name, Message: "document could not be loaded", Cause: err}
	}
	return toValidationError(name, result)
}

// ValidateProfile checks a value against the Profile schema.
func ValidateProfile(value any) error {
	return Validate(Profile, value)
}

// ValidateJobAnalysis checks a value against the JobAnalysis schema.
func ValidateJobAnalysis(value any) error {
	return Validate(JobAnalysis, value)
}

// ValidateFile validates a JSON file on disk against the named schema.
func ValidateFile(name, jsonPath string) error {
	absPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("JSON file not found: %s", absPath)
		}
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	return ValidateBytes(name, data)
}

func toValidationError(name string, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

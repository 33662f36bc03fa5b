// Package llm - extractor.go builds extraction prompts from a declarative output shape.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON object a prompt asks the model to produce.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "JobAnalysis")
	Description string        // Preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Shape hint shown to the model, e.g. `["string"]`
	Description string
	Required    bool
}

// BuildExtractionPrompt constructs the prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("The JSON object must have exactly this structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		fmt.Fprintf(&sb, "  %q: %s%s", field.Name, typeHint, requiredHint)
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Use only information present in the text. Do not invent facts.\n")
	sb.WriteString("- Use empty lists for missing list fields and \"Unknown\" for missing text fields.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// JobAnalysisSchema returns the extraction schema for job descriptions.
func JobAnalysisSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "JobAnalysis",
		Description: `You are an expert technical recruiter. Analyze the job description below and extract the role, the skills it asks for and what the job involves.
Rank each keyword by how central it is to the role, from 1 (mentioned in passing) to 5 (core requirement).`,
		Fields: []SchemaField{
			{
				Name:        "role_type",
				Type:        `"string"`,
				Description: "Job title or role family, e.g. 'Backend Engineer'",
				Required:    true,
			},
			{
				Name:        "keywords",
				Type:        `[{"term": "string", "importance": 1-5, "category": "string"}]`,
				Description: "Important terms with importance and category (skill, tool, domain, soft_skill)",
				Required:    true,
			},
			{
				Name:        "required_skills",
				Type:        `["string"]`,
				Description: "Skills the posting states as required",
				Required:    true,
			},
			{
				Name:        "preferred_skills",
				Type:        `["string"]`,
				Description: "Nice-to-have skills",
				Required:    true,
			},
			{
				Name:        "experience_level",
				Type:        `"string"`,
				Description: "Seniority, e.g. 'Senior' or '3-5 years'",
				Required:    true,
			},
			{
				Name:        "key_responsibilities",
				Type:        `["string"]`,
				Description: "Main duties of the role",
				Required:    true,
			},
		},
	}
}

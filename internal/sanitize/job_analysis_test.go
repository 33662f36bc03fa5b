package sanitize

import (
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeJobAnalysis_PartialResult(t *testing.T) {
	analysis, repairs, err := SanitizeJobAnalysis(decode(t, `{"required_skills": ["Python", "AWS"]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Python", "AWS"}, analysis.RequiredSkills)
	assert.Equal(t, types.UnknownValue, analysis.RoleType)
	assert.Equal(t, types.UnknownValue, analysis.ExperienceLevel)
	assert.Equal(t, []types.Keyword{}, analysis.Keywords)
	assert.Equal(t, []string{}, analysis.PreferredSkills)
	assert.Equal(t, []string{}, analysis.KeyResponsibilities)
	assert.Contains(t, rules(repairs), RuleScalarDefaulted)
}

func TestSanitizeJobAnalysis_Keywords(t *testing.T) {
	analysis, _, err := SanitizeJobAnalysis(decode(t, `{
		"role_type": "Data Engineer",
		"experience_level": "Senior",
		"keywords": [
			{"term": "Spark", "importance": 5, "category": "Technical"},
			{"term": "Airflow", "importance": "4"},
			{"term": "SQL", "importance": 11},
			{"term": "Teamwork", "importance": 0, "category": "Soft Skill"},
			{"term": "", "importance": 3},
			"Kafka",
			42
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, []types.Keyword{
		{Term: "Spark", Importance: 5, Category: "Technical"},
		{Term: "Airflow", Importance: 4},
		{Term: "SQL", Importance: 5},
		{Term: "Teamwork", Importance: 1, Category: "Soft Skill"},
		{Term: "Kafka", Importance: 3},
	}, analysis.Keywords)
	assert.NoError(t, analysis.Validate())
}

func TestSanitizeJobAnalysis_Rejected(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"not an object", []any{"Python"}},
		{"no recognized fields", map[string]any{"answer": "I could not parse this"}},
		{"empty object", map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, _, err := SanitizeJobAnalysis(tt.raw)
			assert.Nil(t, analysis)
			var schemaErr *SchemaValidationError
			assert.ErrorAs(t, err, &schemaErr)
		})
	}
}

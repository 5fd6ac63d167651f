package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummary(t *testing.T) {
	body := `{
		"visit_summary": "Follow-up for hypertension.",
		"diagnostic_assessment": "Blood pressure controlled.",
		"treatment_care_plan": "Continue lisinopril 10mg.",
		"follow_up_duration": "3 months",
		"follow_up_reason": "Routine monitoring",
		"patient_instructions": "Log readings daily.",
		"follow_up_questions": ["Any dizziness?", "Missed doses?"]
	}`

	got, err := parseSummary(body)
	require.NoError(t, err)
	assert.Equal(t, "3 months", got.FollowUpDuration)
	assert.Equal(t, []string{"Any dizziness?", "Missed doses?"}, got.FollowUpQuestions)

	fenced, err := parseSummary("```json\n" + body + "\n```")
	require.NoError(t, err)
	assert.Equal(t, got, fenced)
}

func TestParseSummaryErrors(t *testing.T) {
	_, err := parseSummary("")
	assert.Error(t, err)

	_, err = parseSummary("The patient is doing well.")
	assert.ErrorContains(t, err, "unparseable summary response")
}

func TestParseSummaryDefaultsQuestions(t *testing.T) {
	got, err := parseSummary(`{"visit_summary": "Short visit."}`)
	require.NoError(t, err)
	assert.NotNil(t, got.FollowUpQuestions)
	assert.Empty(t, got.FollowUpQuestions)
}

func TestSummarySchemaRequiresAllKeys(t *testing.T) {
	schema := summarySchema()
	assert.ElementsMatch(t, summaryKeys, schema.Required)
	for _, key := range summaryKeys {
		assert.Contains(t, schema.Properties, key)
	}
}

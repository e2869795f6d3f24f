package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadResumes(t *testing.T) {
	input := `[
		{"ID": "r1", "category": "ACCOUNTANT", "summary": "Certified", "education": "Not specified",
		 "work_experience": "No experience listed", "skills": "GAAP"},
		{"id": 42, "category": " HR ", "summary": "No summary available"},
		{"category": "CHEF", "summary": "Cook"}
	]`
	got, err := LoadResumes(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "r1", got[0].ID)
	assert.Empty(t, got[0].Education)
	assert.Empty(t, got[0].WorkExperience)
	assert.Equal(t, "GAAP", got[0].Skills)

	assert.Equal(t, "42", got[1].ID)
	assert.Equal(t, "HR", got[1].Category)
	assert.Empty(t, got[1].Summary)

	assert.Equal(t, "resume_2", got[2].ID)
}

func TestLoadResumes_Malformed(t *testing.T) {
	_, err := LoadResumes(strings.NewReader(`{"ID": "r1"}`))
	require.Error(t, err)
}

func TestLoadJobDescriptions(t *testing.T) {
	input := `[
		{"position_title": "Senior Accountant", "model_response": {"Required Skills": ["GAAP", "Excel"]}},
		{"id": "jd-x", "position_title": "Data Analyst", "model_response": {}}
	]`
	got, err := LoadJobDescriptions(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "jd_0", got[0].ID)
	assert.Equal(t, "Job Title: Senior Accountant\nRequired Skills: GAAP; Excel", got[0].Text())
	assert.Equal(t, "jd-x", got[1].ID)
}

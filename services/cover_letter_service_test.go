package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Seebrasse345/linkedin-auto-apply/models"
)

func TestCoverLetter_FallbackWhenAPIUnavailable(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	svc := NewCoverLetterService("")
	job := &models.JobContext{ID: "1", Title: "Platform Engineer", Company: "Initech"}

	letter := svc.Generate(job, map[string]string{
		"First name": "Jane",
		"Last name":  "Doe",
	})

	assert.Contains(t, letter, "Platform Engineer")
	assert.Contains(t, letter, "Initech")
	assert.Contains(t, letter, "Jane Doe")
	assert.Contains(t, letter, "Dear Hiring Manager")
}

func TestCoverLetter_FallbackHandlesMissingJobFields(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	svc := NewCoverLetterService("")
	letter := svc.Generate(&models.JobContext{ID: "2"}, nil)

	assert.Contains(t, letter, "the position")
	assert.Contains(t, letter, "your company")
	assert.Contains(t, letter, "the applicant")
}

func TestApplicantName(t *testing.T) {
	assert.Equal(t, "Jane Doe", applicantName(map[string]string{
		"FIRST NAME": "Jane",
		"last name":  "Doe",
	}))
	assert.Equal(t, "Jane", applicantName(map[string]string{"First name": "Jane"}))
	assert.Equal(t, "the applicant", applicantName(nil))
}

func TestBuildAnswerPrompt_TruncatesDescription(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'a'
	}
	job := &models.JobContext{Title: "SRE", Company: "Acme", Description: string(long)}

	prompt := buildAnswerPrompt("Years of experience?", "text", nil, job)
	assert.LessOrEqual(t, len(prompt), 2500)
	assert.Contains(t, prompt, "Years of experience?")
	assert.Contains(t, prompt, "Acme")
}

func TestBuildAnswerPrompt_NumbersOptions(t *testing.T) {
	prompt := buildAnswerPrompt("Authorized?", "radio", []string{"Yes", "No"}, nil)
	assert.Contains(t, prompt, "1. Yes")
	assert.Contains(t, prompt, "2. No")
}

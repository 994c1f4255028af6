package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/Seebrasse345/linkedin-auto-apply/models"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

// LetterGenerator produces a cover letter for a job. Generation is
// best-effort: implementations must always return usable text.
type LetterGenerator interface {
	Generate(job *models.JobContext, answers map[string]string) string
}

const coverLetterSystemPrompt = "You are a professional cover letter writer. " +
	"Write concise, well-structured cover letters."

// CoverLetterService generates a fresh cover letter per job via the
// chat-completion API, falling back to a local template when the API is
// unavailable. A generation failure is never surfaced as an attempt
// failure.
type CoverLetterService struct {
	cvPath string
}

func NewCoverLetterService(cvPath string) *CoverLetterService {
	return &CoverLetterService{cvPath: cvPath}
}

func (s *CoverLetterService) Generate(job *models.JobContext, answers map[string]string) string {
	utils.Log.Infof("Generating cover letter for %s at %s", job.Title, job.Company)

	prompt := s.buildPrompt(job, answers)
	letter, err := callChatCompletion(coverLetterSystemPrompt, prompt)
	if err != nil {
		utils.Log.Warnf("Cover letter generation failed, using template fallback: %v", err)
		return fallbackCoverLetter(job, answers)
	}

	letter = strings.TrimSpace(letter)
	if len(letter) < 50 {
		utils.Log.Warnf("Generated cover letter too short (%d chars), using template fallback", len(letter))
		return fallbackCoverLetter(job, answers)
	}
	return letter
}

func (s *CoverLetterService) buildPrompt(job *models.JobContext, answers map[string]string) string {
	var b strings.Builder

	b.WriteString("Write a professional, personalized cover letter for this job application.\n\n")
	b.WriteString("JOB DETAILS:\n")
	fmt.Fprintf(&b, "- Position: %s\n", job.Title)
	fmt.Fprintf(&b, "- Company: %s\n", job.Company)
	if job.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", job.Location)
	}
	if job.Description != "" {
		fmt.Fprintf(&b, "- Job Description: %s\n", job.Description)
	}

	if cv := s.readCV(); cv != "" {
		fmt.Fprintf(&b, "\nAPPLICANT CV:\n%s\n", cv)
	}

	fmt.Fprintf(&b, `
REQUIREMENTS:
1. Write from the perspective of %s
2. Address it to the Hiring Manager
3. Keep it concise (300-400 words maximum)
4. Highlight 2-3 achievements that align with the job
5. Include a proper salutation and closing
6. Plain text for a form field, no date or address blocks
7. Do not leave any placeholders or blank fields

Cover letter:
`, applicantName(answers))

	return b.String()
}

func (s *CoverLetterService) readCV() string {
	if s.cvPath == "" {
		return ""
	}
	data, err := os.ReadFile(s.cvPath)
	if err != nil {
		utils.Log.Warnf("Could not read CV file %s: %v", s.cvPath, err)
		return ""
	}
	return string(data)
}

func applicantName(answers map[string]string) string {
	first, last := "", ""
	for label, value := range answers {
		switch normalizeLabel(label) {
		case "first name":
			first = value
		case "last name":
			last = value
		}
	}
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		return "the applicant"
	}
	return name
}

// fallbackCoverLetter builds a usable letter from a local template when
// the API cannot.
func fallbackCoverLetter(job *models.JobContext, answers map[string]string) string {
	title := job.Title
	if title == "" {
		title = "the position"
	}
	company := job.Company
	if company == "" {
		company = "your company"
	}

	return fmt.Sprintf(`Dear Hiring Manager,

I am writing to express my interest in the %s position at %s. I was excited to learn about this opportunity and believe my skills and experience align well with the requirements of the role.

My background spans software development and applied machine learning, with hands-on experience delivering end-to-end projects from prototype to production. I bring strong analytical and problem-solving skills and a track record of learning new domains quickly.

I am particularly interested in joining %s because of its reputation for innovation. I am confident my background and enthusiasm make me a strong candidate for this position.

I welcome the opportunity to discuss how my qualifications match your needs. Thank you for considering my application.

Sincerely,
%s`, title, company, company, applicantName(answers))
}

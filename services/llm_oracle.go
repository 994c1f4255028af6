package services

import (
	"fmt"
	"strings"

	"github.com/Seebrasse345/linkedin-auto-apply/models"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

const answerSystemPrompt = "You are filling in a job application form on behalf of a candidate. " +
	"Answer each question concisely. When numbered options are given, reply with the " +
	"number of the best option and nothing else. For free-text questions reply with " +
	"the answer text only, no explanation."

// LLMOracle resolves form questions with a chat-completion model.
type LLMOracle struct{}

func NewLLMOracle() *LLMOracle {
	return &LLMOracle{}
}

func (o *LLMOracle) Resolve(question, fieldKind string, options []string, job *models.JobContext) (string, error) {
	prompt := buildAnswerPrompt(question, fieldKind, options, job)

	text, err := callChatCompletion(answerSystemPrompt, prompt)
	if err != nil {
		utils.Log.Warnf("LLM oracle could not answer %q: %v", question, err)
		return "", fmt.Errorf("llm oracle: %w", ErrUnresolved)
	}

	text = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `"'`))
	if text == "" {
		return "", fmt.Errorf("llm oracle returned empty answer: %w", ErrUnresolved)
	}
	return text, nil
}

func buildAnswerPrompt(question, fieldKind string, options []string, job *models.JobContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Form question (%s field): %s\n", fieldKind, question)

	if len(options) > 0 {
		b.WriteString("Options:\n")
		for i, opt := range options {
			fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
		}
	}

	if job != nil {
		b.WriteString("\nJob context:\n")
		fmt.Fprintf(&b, "Title: %s\n", job.Title)
		fmt.Fprintf(&b, "Company: %s\n", job.Company)
		if job.Location != "" {
			fmt.Fprintf(&b, "Location: %s\n", job.Location)
		}
		if job.Description != "" {
			desc := job.Description
			if len(desc) > 2000 {
				desc = desc[:2000]
			}
			fmt.Fprintf(&b, "Description: %s\n", desc)
		}
	}

	return b.String()
}

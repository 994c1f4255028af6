package services

import (
	"strings"
)

// AnswerRule maps a keyword set to a default answer for choice questions.
// Reconfirm marks critical questions: their answers carry legal weight, so
// a stored answer is never silently reused and the oracle is consulted on
// every encounter.
type AnswerRule struct {
	Name      string
	Keywords  []string
	Answer    string
	Reconfirm bool
}

// choiceRules is the single rule table consumed by the select, radio and
// checkbox processors. Order matters: the first matching rule wins.
var choiceRules = []AnswerRule{
	{
		Name: "work-authorization",
		Keywords: []string{
			"visa", "sponsor", "work permit", "right to work",
			"authorization", "authorisation", "citizen", "legally",
		},
		Answer:    "No",
		Reconfirm: true,
	},
	{
		Name:     "disability",
		Keywords: []string{"disability", "disabled"},
		Answer:   "No",
	},
	{
		Name:     "commute-relocation",
		Keywords: []string{"commut", "relocat", "travel", "on-site", "move to"},
		Answer:   "Yes",
	},
	{
		Name:     "remote-work",
		Keywords: []string{"remote", "work from home", "telecommut", "home working"},
		Answer:   "Yes",
	},
	{
		Name:     "experience-qualification",
		Keywords: []string{"experience", "skill", "qualified", "eligible"},
		Answer:   "Yes",
	},
	{
		Name:     "education",
		Keywords: []string{"degree", "bachelor", "master", "education"},
		Answer:   "Yes",
	},
	{
		Name:     "non-compete",
		Keywords: []string{"non-compete", "competitor", "confidentiality agreement"},
		Answer:   "No",
	},
	{
		Name:     "veteran",
		Keywords: []string{"veteran", "military"},
		Answer:   "No",
	},
}

// MatchChoiceRule returns the first rule whose keyword set matches the
// label, or nil.
func MatchChoiceRule(label string) *AnswerRule {
	folded := normalizeLabel(label)
	for i := range choiceRules {
		for _, kw := range choiceRules[i].Keywords {
			if strings.Contains(folded, kw) {
				return &choiceRules[i]
			}
		}
	}
	return nil
}

// IsCriticalQuestion reports whether the label matches a rule that demands
// re-resolution on every encounter (work authorization, sponsorship,
// citizenship, right to work).
func IsCriticalQuestion(label string) bool {
	rule := MatchChoiceRule(label)
	return rule != nil && rule.Reconfirm
}

// TextDefaults are the fixed answers applied to well-known free-text
// questions before the oracle is consulted.
type TextDefaults struct {
	YearsExperience string
	NoticePeriod    string
	Salary          string
}

// For returns the default for the label, or "" when no text rule applies.
func (d TextDefaults) For(label string) string {
	folded := normalizeLabel(label)
	switch {
	case strings.Contains(folded, "years of experience"),
		strings.Contains(folded, "years of work experience"),
		strings.Contains(folded, "how many years"):
		return d.YearsExperience
	case strings.Contains(folded, "notice period"):
		return d.NoticePeriod
	case strings.Contains(folded, "salary"),
		strings.Contains(folded, "compensation"),
		strings.Contains(folded, "pay expectation"):
		return d.Salary
	default:
		return ""
	}
}

// IsCoverLetterField reports whether the label asks for a cover letter.
// Cover letters are always generated fresh, never reused from the store.
func IsCoverLetterField(label string) bool {
	return strings.Contains(normalizeLabel(label), "cover letter")
}

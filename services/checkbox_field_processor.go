package services

import (
	"strings"

	"github.com/Seebrasse345/linkedin-auto-apply/models"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

// CheckboxFieldProcessor interprets a checkbox group as a boolean
// question: an affirmative answer checks the first element, a negative one
// unchecks it if currently checked. Best-effort; it never blocks step
// progress.
type CheckboxFieldProcessor struct {
	store  *AnswerStore
	oracle AnswerOracle
	job    *models.JobContext
}

func NewCheckboxFieldProcessor(store *AnswerStore, oracle AnswerOracle, job *models.JobContext) *CheckboxFieldProcessor {
	return &CheckboxFieldProcessor{store: store, oracle: oracle, job: job}
}

func (p *CheckboxFieldProcessor) ProcessGroup(field *FieldDescriptor) bool {
	if len(field.OptionHandles) == 0 {
		return true
	}
	label := field.Label

	answer, ok := p.store.Get(label)
	if !ok {
		if rule := MatchChoiceRule(label); rule != nil && rule.Answer != "" {
			answer = rule.Answer
		} else {
			resolved, err := p.oracle.Resolve(label, string(FieldCheckboxGroup), []string{"Yes", "No"}, p.job)
			if err != nil {
				utils.Log.Warnf("Could not resolve checkbox %q, leaving as is: %v", label, err)
				return true
			}
			// The oracle may reply with a 1-based option index; persist
			// the mapped option text, never the raw response.
			mapped, matched := MapOracleChoice(resolved, []string{"Yes", "No"})
			if !matched {
				utils.Log.Warnf("Oracle answer %q for checkbox %q matches no option, leaving as is", resolved, label)
				return true
			}
			answer = mapped
			if err := p.store.Set(label, answer); err != nil {
				utils.Log.Warnf("Could not persist answer for %q: %v", label, err)
			}
		}
	}

	first := field.OptionHandles[0]
	affirmative, recognized := parseBoolAnswer(answer)
	if !recognized {
		utils.Log.Warnf("Unrecognized checkbox answer %q for %q, leaving as is", answer, label)
		return true
	}

	if affirmative {
		if err := first.Check(); err != nil {
			utils.Log.Warnf("Error checking %q: %v", label, err)
		} else {
			utils.Log.Infof("Checked %q", label)
		}
		return true
	}

	if checked, err := first.IsChecked(); err == nil && checked {
		if err := first.Uncheck(); err != nil {
			utils.Log.Warnf("Error unchecking %q: %v", label, err)
		} else {
			utils.Log.Infof("Unchecked %q", label)
		}
	}
	return true
}

func parseBoolAnswer(answer string) (value, recognized bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "true", "1", "y":
		return true, true
	case "no", "false", "0", "n":
		return false, true
	default:
		return false, false
	}
}

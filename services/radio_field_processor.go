package services

import (
	"errors"
	"strings"

	"github.com/Seebrasse345/linkedin-auto-apply/browser"
	"github.com/Seebrasse345/linkedin-auto-apply/models"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

// RadioGroupProcessor resolves and applies radio-button question groups.
// Critical questions re-resolve on every encounter; rule-table defaults
// run before the oracle for known categories; an answer that cannot be
// mapped onto an option is a failure, never a guess.
type RadioGroupProcessor struct {
	drv    browser.Driver
	store  *AnswerStore
	oracle AnswerOracle
	job    *models.JobContext
}

func NewRadioGroupProcessor(drv browser.Driver, store *AnswerStore, oracle AnswerOracle, job *models.JobContext) *RadioGroupProcessor {
	return &RadioGroupProcessor{drv: drv, store: store, oracle: oracle, job: job}
}

func (p *RadioGroupProcessor) ProcessGroup(field *FieldDescriptor) bool {
	label := field.Label

	// Resume/CV choices are left untouched, same rule as the resume
	// picker.
	folded := normalizeLabel(label)
	if strings.Contains(folded, "resume") || strings.Contains(folded, "cv") {
		utils.Log.Infof("Skipping resume/CV radio group %q", label)
		return true
	}

	if len(field.Options) == 0 || len(field.OptionHandles) == 0 {
		utils.Log.Warnf("Could not determine options for radio group %q", label)
		return false
	}

	chosen, persist, ok := p.resolve(label, field.Options)
	if !ok {
		return false
	}

	idx := -1
	for i, opt := range field.Options {
		if opt == chosen {
			idx = i
			break
		}
	}
	if idx < 0 {
		// resolve only returns members of field.Options; keep the guard
		// against descriptor drift anyway.
		utils.Log.Warnf("Resolved answer %q not present in options for %q", chosen, label)
		return false
	}

	var labelEl browser.Element
	if idx < len(field.OptionLabels) {
		labelEl = field.OptionLabels[idx]
	}
	if !p.clickRadioOption(field.OptionHandles[idx], labelEl) {
		utils.Log.Warnf("Failed to click option %q for %q", chosen, label)
		return false
	}

	if persist {
		if err := p.store.Set(label, chosen); err != nil {
			utils.Log.Warnf("Could not persist answer for %q: %v", label, err)
		}
	}
	utils.Log.Infof("Selected radio option %q for %q", chosen, label)
	return true
}

// resolve picks one of options for the question. The persist result is
// false when the value came from a forced local default that must not be
// stored.
func (p *RadioGroupProcessor) resolve(label string, options []string) (chosen string, persist, ok bool) {
	critical := IsCriticalQuestion(label)
	if critical {
		utils.Log.Infof("Critical question detected: %q, forcing re-resolution", label)
	}

	if !critical {
		if stored, found := p.store.Get(label); found {
			if opt, matched := MapOracleChoice(stored, options); matched {
				return opt, false, true
			}
		}
		// Known categories answer locally before an oracle round trip.
		if rule := MatchChoiceRule(label); rule != nil && rule.Answer != "" {
			if opt, matched := matchOptionExact(rule.Answer, options); matched {
				utils.Log.Infof("Auto-answering %q with rule %q -> %q", label, rule.Name, opt)
				return opt, true, true
			}
		}
	}

	resolved, err := p.oracle.Resolve(label, string(FieldRadioGroup), options, p.job)
	if err != nil {
		if !errors.Is(err, ErrUnresolved) {
			utils.Log.Warnf("Oracle error for radio group %q: %v", label, err)
			return "", false, false
		}
		rule := MatchChoiceRule(label)
		if rule == nil || rule.Answer == "" {
			utils.Log.Warnf("Unresolved radio group %q and no default rule", label)
			return "", false, false
		}
		opt, matched := matchOptionExact(rule.Answer, options)
		if !matched {
			utils.Log.Warnf("Default %q for %q matches no option", rule.Answer, label)
			return "", false, false
		}
		return opt, false, true
	}

	opt, matched := MapOracleChoice(resolved, options)
	if !matched {
		// Never guess by defaulting to the first option.
		utils.Log.Warnf("Oracle answer %q for %q matches no radio option", resolved, label)
		return "", false, false
	}
	return opt, true, true
}

// clickRadioOption prefers the label element (larger hit target) and falls
// back to the radio element, then a scripted click.
func (p *RadioGroupProcessor) clickRadioOption(radio, label browser.Element) bool {
	if label != nil {
		if err := label.Click(radioClickTimeoutMs); err == nil {
			return true
		}
	}
	if err := radio.Click(radioClickTimeoutMs); err == nil {
		return true
	}
	if err := radio.Evaluate("el => el.click()"); err == nil {
		return true
	}
	return false
}

const radioClickTimeoutMs = 3000

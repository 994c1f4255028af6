package services

import (
	"errors"
	"strings"

	"github.com/Seebrasse345/linkedin-auto-apply/browser"
	"github.com/Seebrasse345/linkedin-auto-apply/models"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

// SelectFieldProcessor resolves and applies single-select dropdowns.
// Labels matching the critical keyword set always re-resolve, regardless
// of any stored answer, so a stale legal-status answer is never reused
// silently.
type SelectFieldProcessor struct {
	labeler fieldLabeler
	store   *AnswerStore
	oracle  AnswerOracle
	job     *models.JobContext
}

func NewSelectFieldProcessor(drv browser.Driver, store *AnswerStore, oracle AnswerOracle, job *models.JobContext) *SelectFieldProcessor {
	return &SelectFieldProcessor{
		labeler: fieldLabeler{drv: drv},
		store:   store,
		oracle:  oracle,
		job:     job,
	}
}

func (p *SelectFieldProcessor) Process(el browser.Element) bool {
	label := p.labeler.fieldLabel(el, FieldSelect)

	options := selectOptions(el)
	if len(options) == 0 {
		utils.Log.Warnf("No options found for select %q", label)
		return false
	}

	critical := IsCriticalQuestion(label)
	if critical {
		utils.Log.Infof("Critical question detected: %q, forcing re-resolution", label)
	}

	var chosen string
	persist := true

	if !critical {
		if stored, ok := p.store.Get(label); ok {
			if opt, matched := matchOptionExact(stored, options); matched {
				chosen = opt
				persist = false // unchanged
			}
		}
	}

	if chosen == "" {
		resolved, err := p.oracle.Resolve(label, string(FieldSelect), options, p.job)
		if err != nil {
			if !errors.Is(err, ErrUnresolved) {
				utils.Log.Warnf("Oracle error for select %q: %v", label, err)
				return false
			}
			// Apply the rule-table default locally; an unresolved answer
			// is never written into the store.
			rule := MatchChoiceRule(label)
			if rule == nil || rule.Answer == "" {
				utils.Log.Warnf("Unresolved select %q and no default rule", label)
				return false
			}
			opt, matched := matchOptionExact(rule.Answer, options)
			if !matched {
				utils.Log.Warnf("Default %q for %q matches no option", rule.Answer, label)
				return false
			}
			chosen = opt
			persist = false
		} else {
			opt, matched := MapOracleChoice(resolved, options)
			if !matched {
				utils.Log.Warnf("Oracle answer %q for %q matches no option", resolved, label)
				return false
			}
			chosen = opt
		}
	}

	if err := el.SelectOptionByLabel(chosen); err != nil {
		utils.Log.Warnf("Error selecting %q for %q: %v", chosen, label, err)
		return false
	}

	if persist {
		// Persist the resolved option text, not the raw oracle output.
		if err := p.store.Set(label, chosen); err != nil {
			utils.Log.Warnf("Could not persist answer for %q: %v", label, err)
		}
	}
	utils.Log.Infof("Selected option %q for %q", chosen, label)
	return true
}

// selectOptions enumerates the option texts, excluding placeholder
// entries.
func selectOptions(el browser.Element) []string {
	var options []string
	set := el.Locate("option")
	for i := 0; i < set.Count(); i++ {
		text := strings.TrimSpace(set.Nth(i).InnerText())
		if text == "" || strings.Contains(normalizeLabel(text), "select an option") {
			continue
		}
		options = append(options, text)
	}
	return options
}

// matchOptionExact finds a case-folded exact match of value in options.
func matchOptionExact(value string, options []string) (string, bool) {
	folded := normalizeLabel(value)
	for _, opt := range options {
		if normalizeLabel(opt) == folded {
			return opt, true
		}
	}
	return "", false
}

package services

import (
	"errors"

	"github.com/Seebrasse345/linkedin-auto-apply/browser"
	"github.com/Seebrasse345/linkedin-auto-apply/models"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

// TextFieldProcessor resolves and fills text inputs and textareas.
// Resolution order: stored answer, fixed domain default, then the oracle.
// Cover-letter fields bypass the store entirely and are generated fresh
// every time.
type TextFieldProcessor struct {
	labeler  fieldLabeler
	store    *AnswerStore
	oracle   AnswerOracle
	letters  LetterGenerator
	defaults TextDefaults
	job      *models.JobContext
}

func NewTextFieldProcessor(drv browser.Driver, store *AnswerStore, oracle AnswerOracle, letters LetterGenerator, defaults TextDefaults, job *models.JobContext) *TextFieldProcessor {
	return &TextFieldProcessor{
		labeler:  fieldLabeler{drv: drv},
		store:    store,
		oracle:   oracle,
		letters:  letters,
		defaults: defaults,
		job:      job,
	}
}

func (p *TextFieldProcessor) Process(el browser.Element, kind FieldKind) bool {
	label := p.labeler.fieldLabel(el, kind)

	if IsCoverLetterField(label) {
		return p.fillCoverLetter(el, label)
	}

	answer, stored := p.store.Get(label)
	if !stored {
		if d := p.defaults.For(label); d != "" {
			utils.Log.Infof("Auto-answering %q with default %q", label, d)
			answer = d
		} else {
			resolved, err := p.oracle.Resolve(label, string(kind), nil, p.job)
			if err != nil {
				if errors.Is(err, ErrUnresolved) {
					utils.Log.Warnf("No answer available for text field %q", label)
				} else {
					utils.Log.Warnf("Oracle error for %q: %v", label, err)
				}
				return false
			}
			answer = resolved
		}
		if err := p.store.Set(label, answer); err != nil {
			utils.Log.Warnf("Could not persist answer for %q: %v", label, err)
		}
	}

	if err := el.Fill(answer); err != nil {
		utils.Log.Warnf("Error filling %s %q: %v", kind, label, err)
		return false
	}
	utils.Log.Infof("Filled %s %q", kind, label)
	return true
}

// fillCoverLetter always generates a fresh letter. The result is persisted
// for reference only; the stored copy is never reused.
func (p *TextFieldProcessor) fillCoverLetter(el browser.Element, label string) bool {
	letter := p.letters.Generate(p.job, p.store.Snapshot())
	if err := el.Fill(letter); err != nil {
		utils.Log.Warnf("Error filling cover letter field %q: %v", label, err)
		return false
	}
	if err := p.store.Set(label, letter); err != nil {
		utils.Log.Warnf("Could not persist cover letter for reference: %v", err)
	}
	utils.Log.Infof("Filled cover letter field %q with freshly generated letter", label)
	return true
}

package services

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labeledInput(drv *fakeDriver, label string) *fakeElement {
	el := newFakeElement().withAttr("id", "input-1")
	drv.root.withChildren("label[for='input-1']", newFakeElement().withText(label))
	return el
}

func newTextProcessor(drv *fakeDriver, store *AnswerStore, oracle AnswerOracle, letters LetterGenerator) *TextFieldProcessor {
	return NewTextFieldProcessor(drv, store, oracle, letters,
		TextDefaults{YearsExperience: "2", NoticePeriod: "1 month", Salary: "45000"},
		testJob("1"))
}

func TestTextProcessor_StoredAnswerReused(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	oracle := &stubOracle{}

	label := "What is your phone number?"
	require.NoError(t, store.Set(label, "07700 900123"))

	el := labeledInput(drv, label)
	p := newTextProcessor(drv, store, oracle, &stubLetters{})

	assert.True(t, p.Process(el, FieldText))
	assert.Equal(t, []string{"07700 900123"}, el.filled)
	assert.Equal(t, 0, oracle.calls)
}

func TestTextProcessor_DomainDefaultBeforeOracle(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	oracle := &stubOracle{}

	label := "How many years of work experience do you have with Python?"
	el := labeledInput(drv, label)
	p := newTextProcessor(drv, store, oracle, &stubLetters{})

	assert.True(t, p.Process(el, FieldText))
	assert.Equal(t, []string{"2"}, el.filled)
	assert.Equal(t, 0, oracle.calls)

	got, _ := store.Get(label)
	assert.Equal(t, "2", got, "applied default is persisted for reuse")
}

func TestTextProcessor_OracleAnswerFilledAndPersisted(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	oracle := &stubOracle{answer: "I led the migration of a monolith to services."}

	label := "Describe a project you are proud of"
	el := labeledInput(drv, label)
	p := newTextProcessor(drv, store, oracle, &stubLetters{})

	assert.True(t, p.Process(el, FieldTextarea))
	assert.Equal(t, []string{oracle.answer}, el.filled)

	got, _ := store.Get(label)
	assert.Equal(t, oracle.answer, got)
}

func TestTextProcessor_UnresolvedFails(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	oracle := &stubOracle{err: fmt.Errorf("nobody home: %w", ErrUnresolved)}

	el := labeledInput(drv, "Why do you want this role?")
	p := newTextProcessor(drv, store, oracle, &stubLetters{})

	assert.False(t, p.Process(el, FieldText))
	assert.Empty(t, el.filled)
	assert.Equal(t, 0, store.Len(), "unresolved answers are never stored")
}

func TestTextProcessor_CoverLetterAlwaysRegenerated(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	letters := &stubLetters{letter: "Dear Hiring Manager, fresh letter."}

	label := "Cover letter"
	require.NoError(t, store.Set(label, "stale letter from a previous job"))

	el := labeledInput(drv, label)
	p := newTextProcessor(drv, store, &stubOracle{}, letters)

	assert.True(t, p.Process(el, FieldTextarea))
	assert.Equal(t, 1, letters.calls, "stored letter must not be reused")
	assert.Equal(t, []string{letters.letter}, el.filled)

	got, _ := store.Get(label)
	assert.Equal(t, letters.letter, got, "fresh letter replaces the stored reference copy")
}

func TestFieldLabel_FallbackChain(t *testing.T) {
	drv := newFakeDriver()
	labeler := fieldLabeler{drv: drv}

	// label[for] reference.
	el := newFakeElement().withAttr("id", "f1")
	drv.root.withChildren("label[for='f1']", newFakeElement().withText("First name"))
	assert.Equal(t, "First name", labeler.fieldLabel(el, FieldText))

	// Parent label when no id reference exists.
	parent := newFakeElement().withChildren(
		"label, .fb-form-element__label, .fb-dash-form-element__label",
		newFakeElement().withText("Last name"),
	)
	el2 := newFakeElement().withChildren("xpath=..", parent)
	assert.Equal(t, "Last name", labeler.fieldLabel(el2, FieldText))

	// Fieldset legend for grouped kinds.
	legend := newFakeElement().withText("Do you require sponsorship?")
	fieldset := newFakeElement().withChildren("legend", legend)
	el3 := newFakeElement().withChildren("xpath=ancestor::fieldset[1]", fieldset)
	assert.Equal(t, "Do you require sponsorship?", labeler.fieldLabel(el3, FieldRadioGroup))

	// Generic placeholder as last resort.
	assert.Equal(t, "Unlabeled text", labeler.fieldLabel(newFakeElement(), FieldText))
}

package services

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seebrasse345/linkedin-auto-apply/browser"
)

func checkboxField(label string) (*FieldDescriptor, *fakeElement) {
	box := newFakeElement()
	return &FieldDescriptor{
		Label:         label,
		Kind:          FieldCheckboxGroup,
		Handle:        box,
		OptionHandles: []browser.Element{box},
	}, box
}

func TestCheckboxProcessor_AffirmativeChecks(t *testing.T) {
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	label := "I agree to be contacted about this application"
	require.NoError(t, store.Set(label, "Yes"))

	field, box := checkboxField(label)
	p := NewCheckboxFieldProcessor(store, &stubOracle{}, testJob("1"))

	assert.True(t, p.ProcessGroup(field))
	assert.Equal(t, 1, box.checks)
}

func TestCheckboxProcessor_NegativeUnchecksOnlyWhenChecked(t *testing.T) {
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	label := "Subscribe to the company newsletter"
	require.NoError(t, store.Set(label, "No"))

	field, box := checkboxField(label)
	p := NewCheckboxFieldProcessor(store, &stubOracle{}, testJob("1"))

	assert.True(t, p.ProcessGroup(field))
	assert.Equal(t, 0, box.unchecks, "unchecked box stays untouched")

	box.checked = true
	assert.True(t, p.ProcessGroup(field))
	assert.Equal(t, 1, box.unchecks)
}

func TestCheckboxProcessor_OracleAnswerPersisted(t *testing.T) {
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	oracle := &stubOracle{answer: "Yes"}

	label := "I confirm the information provided is accurate"
	field, box := checkboxField(label)
	p := NewCheckboxFieldProcessor(store, oracle, testJob("1"))

	assert.True(t, p.ProcessGroup(field))
	assert.Equal(t, 1, box.checks)

	got, _ := store.Get(label)
	assert.Equal(t, "Yes", got)
}

func TestCheckboxProcessor_NumericOracleAnswerMapped(t *testing.T) {
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	oracle := &stubOracle{answer: "2"}

	label := "Have you previously been employed by this company?"
	field, box := checkboxField(label)
	box.checked = true
	p := NewCheckboxFieldProcessor(store, oracle, testJob("1"))

	assert.True(t, p.ProcessGroup(field))
	assert.Equal(t, 1, box.unchecks, "index 2 maps to No")

	got, ok := store.Get(label)
	require.True(t, ok)
	assert.Equal(t, "No", got, "the option text is persisted, not the index")
}

func TestCheckboxProcessor_UnmappableOracleAnswerNotPersisted(t *testing.T) {
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	oracle := &stubOracle{answer: "7"}

	label := "Do you hold a current security clearance?"
	field, box := checkboxField(label)
	p := NewCheckboxFieldProcessor(store, oracle, testJob("1"))

	assert.True(t, p.ProcessGroup(field))
	assert.Equal(t, 0, box.checks)
	assert.Equal(t, 0, box.unchecks)

	_, ok := store.Get(label)
	assert.False(t, ok, "unmappable answers never reach the store")
}

func TestCheckboxProcessor_NeverBlocksStepProgress(t *testing.T) {
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))

	// Unresolvable answer still reports success.
	oracle := &stubOracle{err: fmt.Errorf("no oracle: %w", ErrUnresolved)}
	field, box := checkboxField("An unusual consent question")
	p := NewCheckboxFieldProcessor(store, oracle, testJob("1"))

	assert.True(t, p.ProcessGroup(field))
	assert.Equal(t, 0, box.checks)

	// Unrecognized stored value also reports success.
	label := "Preferred contact channel"
	require.NoError(t, store.Set(label, "Email"))
	field2, box2 := checkboxField(label)
	assert.True(t, p.ProcessGroup(field2))
	assert.Equal(t, 0, box2.checks)
}

func TestParseBoolAnswer(t *testing.T) {
	for _, s := range []string{"Yes", "yes", " TRUE ", "1", "y"} {
		v, ok := parseBoolAnswer(s)
		assert.True(t, ok, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"No", "false", "0", "n"} {
		v, ok := parseBoolAnswer(s)
		assert.True(t, ok, s)
		assert.False(t, v, s)
	}
	_, ok := parseBoolAnswer("maybe")
	assert.False(t, ok)
}

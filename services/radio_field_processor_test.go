package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seebrasse345/linkedin-auto-apply/browser"
)

func radioField(label string, options ...string) (*FieldDescriptor, []*fakeElement) {
	field := &FieldDescriptor{Label: label, Kind: FieldRadioGroup}
	var handles []*fakeElement
	for _, o := range options {
		h := newFakeElement().withAttr("value", o)
		handles = append(handles, h)
		field.Options = append(field.Options, o)
		field.OptionHandles = append(field.OptionHandles, h)
		field.OptionLabels = append(field.OptionLabels, nil)
	}
	field.Handle = handles[0]
	return field, handles
}

func TestRadioProcessor_StoredAnswerClicksMatchingOption(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	oracle := &stubOracle{}

	label := "Have you completed a background check before?"
	require.NoError(t, store.Set(label, "Yes"))

	field, handles := radioField(label, "Yes", "No")
	p := NewRadioGroupProcessor(drv, store, oracle, testJob("1"))

	assert.True(t, p.ProcessGroup(field))
	assert.Equal(t, 1, handles[0].clicks)
	assert.Equal(t, 0, handles[1].clicks)
	assert.Equal(t, 0, oracle.calls)
}

func TestRadioProcessor_RuleAutoAnswerBeforeOracle(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	oracle := &stubOracle{}

	label := "Do you have a disability?"
	field, handles := radioField(label, "Yes", "No")
	p := NewRadioGroupProcessor(drv, store, oracle, testJob("1"))

	assert.True(t, p.ProcessGroup(field))
	assert.Equal(t, 1, handles[1].clicks, "rule answers No without an oracle round trip")
	assert.Equal(t, 0, oracle.calls)

	got, _ := store.Get(label)
	assert.Equal(t, "No", got)
}

func TestRadioProcessor_CriticalAlwaysConsultsOracle(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	oracle := &stubOracle{answer: "No"}

	label := "Are you legally authorized to work in this country?"
	require.NoError(t, store.Set(label, "Yes"))

	field, handles := radioField(label, "Yes", "No")
	p := NewRadioGroupProcessor(drv, store, oracle, testJob("1"))

	assert.True(t, p.ProcessGroup(field))
	assert.Equal(t, 1, oracle.calls)
	assert.Equal(t, 1, handles[1].clicks)
}

func TestRadioProcessor_UnmatchedOracleAnswerNeverGuesses(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))
	oracle := &stubOracle{answer: "Emacs"}

	field, handles := radioField("Which editor do you prefer?", "Vim", "Nano")
	p := NewRadioGroupProcessor(drv, store, oracle, testJob("1"))

	assert.False(t, p.ProcessGroup(field))
	assert.Equal(t, 0, handles[0].clicks, "first option must not be clicked as a guess")
	assert.Equal(t, 0, handles[1].clicks)
}

func TestRadioProcessor_SkipsResumeGroups(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))

	field, handles := radioField("Choose a resume", "resume-a.pdf", "resume-b.pdf")
	p := NewRadioGroupProcessor(drv, store, &stubOracle{}, testJob("1"))

	assert.True(t, p.ProcessGroup(field))
	assert.Equal(t, 0, handles[0].clicks)
}

func TestRadioProcessor_PrefersLabelClickTarget(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, filepath.Join(t.TempDir(), "answers.json"))

	label := "Do you have a disability?"
	field, handles := radioField(label, "Yes", "No")
	labelEl := newFakeElement().withText("No")
	field.OptionLabels[1] = browser.Element(labelEl)

	p := NewRadioGroupProcessor(drv, store, &stubOracle{}, testJob("1"))
	assert.True(t, p.ProcessGroup(field))
	assert.Equal(t, 1, labelEl.clicks, "label is the preferred click target")
	assert.Equal(t, 0, handles[1].clicks)
}

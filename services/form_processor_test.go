package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadioGroupKey_TieredFallback(t *testing.T) {
	tests := []struct {
		name        string
		attrName    string
		id          string
		containerID string
		index       int
		want        string
	}{
		{"shared name wins", "work-auth", "radio-0", "container-1", 0, "name:work-auth"},
		{"structured id strips ordinal", "", "question-visa-0", "", 0, "id:question-visa"},
		{"structured id same group", "", "question-visa-1", "", 1, "id:question-visa"},
		{"id without ordinal falls through", "", "plain-id", "outer", 2, "container:outer"},
		{"container id", "", "", "urn-li-form-42", 3, "container:urn-li-form-42"},
		{"singleton last resort", "", "", "", 4, "solo:4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := radioGroupKey(tt.attrName, tt.id, tt.containerID, tt.index)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroupLooseRadios_GroupsByName(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, t.TempDir()+"/answers.json")
	fp := NewFormProcessor(drv, store, &stubOracle{}, &stubLetters{}, TextDefaults{}, testJob("1"))

	yes := newFakeElement().withAttr("name", "q1").withAttr("value", "Yes")
	no := newFakeElement().withAttr("name", "q1").withAttr("value", "No")
	other := newFakeElement().withAttr("name", "q2").withAttr("value", "Maybe")

	groups := fp.groupLooseRadios(fakeSet{yes, no, other})
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"Yes", "No"}, groups[0].Options)
	assert.Equal(t, []string{"Maybe"}, groups[1].Options)
}

func TestRadioOptionText_Fallbacks(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, t.TempDir()+"/answers.json")
	fp := NewFormProcessor(drv, store, &stubOracle{}, &stubLetters{}, TextDefaults{}, testJob("1"))

	// role=radio div carries its own text.
	div := newFakeElement().withAttr("role", "radio").withText(" Remote ")
	text, _ := fp.radioOptionText(div, 0)
	assert.Equal(t, "Remote", text)

	// input with an id resolves through the page-level label.
	input := newFakeElement().withAttr("id", "opt-yes")
	drv.root.withChildren("label[for='opt-yes']", newFakeElement().withText("Yes"))
	text, labelEl := fp.radioOptionText(input, 0)
	assert.Equal(t, "Yes", text)
	assert.NotNil(t, labelEl)

	// value attribute as fallback.
	valued := newFakeElement().withAttr("value", "No")
	text, _ = fp.radioOptionText(valued, 1)
	assert.Equal(t, "No", text)

	// positional placeholder as last resort.
	bare := newFakeElement()
	text, _ = fp.radioOptionText(bare, 2)
	assert.Equal(t, "Option 3", text)
}

func TestProcessFields_EmptyStepSucceeds(t *testing.T) {
	drv := newFakeDriver()
	store := mustStore(t, t.TempDir()+"/answers.json")
	fp := NewFormProcessor(drv, store, &stubOracle{}, &stubLetters{}, TextDefaults{}, testJob("1"))

	modal := newFakeElement()
	assert.True(t, fp.ProcessFields(modal))
}

package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Seebrasse345/linkedin-auto-apply/browser"
	"github.com/Seebrasse345/linkedin-auto-apply/models"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

// FormProcessor enumerates all visible fields inside the application modal
// and dispatches each to the matching field processor. Its boolean result
// is advisory: individual field failures are logged but do not abort the
// step.
type FormProcessor struct {
	drv     browser.Driver
	labeler fieldLabeler

	text    *TextFieldProcessor
	selects *SelectFieldProcessor
	radios  *RadioGroupProcessor
	checks  *CheckboxFieldProcessor
	resume  *ResumeFieldProcessor
}

func NewFormProcessor(drv browser.Driver, store *AnswerStore, oracle AnswerOracle, letters LetterGenerator, defaults TextDefaults, job *models.JobContext) *FormProcessor {
	return &FormProcessor{
		drv:     drv,
		labeler: fieldLabeler{drv: drv},
		text:    NewTextFieldProcessor(drv, store, oracle, letters, defaults, job),
		selects: NewSelectFieldProcessor(drv, store, oracle, job),
		radios:  NewRadioGroupProcessor(drv, store, oracle, job),
		checks:  NewCheckboxFieldProcessor(store, oracle, job),
		resume:  NewResumeFieldProcessor(),
	}
}

// ProcessFields processes every field on the current step. Returns true
// only if every dispatched processor succeeded.
func (p *FormProcessor) ProcessFields(modal browser.Element) bool {
	success := true

	texts := modal.Locate(TextInputSelector)
	utils.Log.Infof("Found %d text input fields in form", texts.Count())
	for i := 0; i < texts.Count(); i++ {
		if !p.text.Process(texts.Nth(i), FieldText) {
			success = false
		}
	}

	areas := modal.Locate(TextareaSelector)
	utils.Log.Infof("Found %d textarea fields in form", areas.Count())
	for i := 0; i < areas.Count(); i++ {
		if !p.text.Process(areas.Nth(i), FieldTextarea) {
			success = false
		}
	}

	selects := modal.Locate(SelectSelector)
	utils.Log.Infof("Found %d select fields in form", selects.Count())
	for i := 0; i < selects.Count(); i++ {
		if !p.selects.Process(selects.Nth(i)) {
			success = false
		}
	}

	if !p.processRadioGroups(modal) {
		success = false
	}

	if !p.processCheckboxGroups(modal) {
		success = false
	}

	if !p.resume.Process(p.drv) {
		success = false
	}

	return success
}

// processRadioGroups prefers fieldset-delimited groups; radios outside any
// fieldset are grouped by the multi-tier key fallback.
func (p *FormProcessor) processRadioGroups(modal browser.Element) bool {
	success := true

	fieldsets := modal.Locate(RadioFieldsetSelector)
	if fieldsets.Count() > 0 {
		utils.Log.Infof("Found %d radio fieldsets in form", fieldsets.Count())
		for i := 0; i < fieldsets.Count(); i++ {
			field := p.describeFieldsetGroup(fieldsets.Nth(i))
			if !p.radios.ProcessGroup(field) {
				success = false
			}
		}
		return success
	}

	radios := modal.Locate(RadioSelector)
	if radios.Count() == 0 {
		return true
	}
	utils.Log.Infof("Found %d loose radio buttons in form", radios.Count())

	for _, field := range p.groupLooseRadios(radios) {
		if !p.radios.ProcessGroup(field) {
			success = false
		}
	}
	return success
}

// describeFieldsetGroup builds the descriptor for one fieldset of radios.
func (p *FormProcessor) describeFieldsetGroup(fieldset browser.Element) *FieldDescriptor {
	radios := fieldset.Locate(RadioSelector)

	field := &FieldDescriptor{Kind: FieldRadioGroup}
	for i := 0; i < radios.Count(); i++ {
		radio := radios.Nth(i)
		text, labelEl := p.radioOptionText(radio, i)
		field.Options = append(field.Options, text)
		field.OptionHandles = append(field.OptionHandles, radio)
		field.OptionLabels = append(field.OptionLabels, labelEl)
	}

	if radios.Count() > 0 {
		field.Handle = radios.First()
		field.Label = p.labeler.fieldLabel(radios.First(), FieldRadioGroup)
	}
	return field
}

// radioOptionText extracts the display text of one radio option and the
// associated label element, when any.
func (p *FormProcessor) radioOptionText(radio browser.Element, index int) (string, browser.Element) {
	if radio.GetAttribute("role") == "radio" {
		if text := strings.TrimSpace(radio.InnerText()); text != "" {
			return text, nil
		}
	}

	if id := radio.GetAttribute("id"); id != "" {
		labels := p.drv.Locate(fmt.Sprintf("label[for='%s']", id))
		if labels.Count() > 0 {
			labelEl := labels.First()
			if text := strings.TrimSpace(labelEl.InnerText()); text != "" {
				return text, labelEl
			}
			return fmt.Sprintf("Option %d", index+1), labelEl
		}
	}

	if value := radio.GetAttribute("value"); value != "" {
		return value, nil
	}
	return fmt.Sprintf("Option %d", index+1), nil
}

// groupLooseRadios groups radios that live outside fieldsets.
func (p *FormProcessor) groupLooseRadios(radios browser.ElementSet) []*FieldDescriptor {
	groups := make(map[string]*FieldDescriptor)
	var order []string

	for i := 0; i < radios.Count(); i++ {
		radio := radios.Nth(i)
		key := radioGroupKey(
			radio.GetAttribute("name"),
			radio.GetAttribute("id"),
			p.ancestorContainerID(radio),
			i,
		)

		field, ok := groups[key]
		if !ok {
			field = &FieldDescriptor{
				Kind:   FieldRadioGroup,
				Handle: radio,
				Label:  p.labeler.fieldLabel(radio, FieldRadioGroup),
			}
			groups[key] = field
			order = append(order, key)
		}

		text, labelEl := p.radioOptionText(radio, len(field.Options))
		field.Options = append(field.Options, text)
		field.OptionHandles = append(field.OptionHandles, radio)
		field.OptionLabels = append(field.OptionLabels, labelEl)
	}

	out := make([]*FieldDescriptor, 0, len(order))
	for _, key := range order {
		utils.Log.Infof("Radio group %q has %d options", groups[key].Label, len(groups[key].Options))
		out = append(out, groups[key])
	}
	return out
}

func (p *FormProcessor) ancestorContainerID(el browser.Element) string {
	ancestors := el.Locate("xpath=ancestor::div[@id][1]")
	if ancestors.Count() == 0 {
		return ""
	}
	return ancestors.First().GetAttribute("id")
}

var trailingOrdinal = regexp.MustCompile(`-\d+$`)

// radioGroupKey derives a grouping key for a radio button. Question markup
// is not uniformly structured, hence the tiered fallback: shared name
// attribute, structured-id prefix with the trailing ordinal stripped,
// nearest ancestor container id, then a singleton group per element.
func radioGroupKey(name, id, containerID string, index int) string {
	if name != "" {
		return "name:" + name
	}
	if id != "" && trailingOrdinal.MatchString(id) {
		return "id:" + trailingOrdinal.ReplaceAllString(id, "")
	}
	if containerID != "" {
		return "container:" + containerID
	}
	return fmt.Sprintf("solo:%d", index)
}

// processCheckboxGroups groups checkboxes with the same key fallback as
// radios and hands each group to the checkbox processor.
func (p *FormProcessor) processCheckboxGroups(modal browser.Element) bool {
	boxes := modal.Locate(CheckboxSelector)
	if boxes.Count() == 0 {
		return true
	}
	utils.Log.Infof("Found %d checkbox fields in form", boxes.Count())

	groups := make(map[string]*FieldDescriptor)
	var order []string

	for i := 0; i < boxes.Count(); i++ {
		box := boxes.Nth(i)
		key := radioGroupKey(
			box.GetAttribute("name"),
			box.GetAttribute("id"),
			p.ancestorContainerID(box),
			i,
		)

		field, ok := groups[key]
		if !ok {
			field = &FieldDescriptor{
				Kind:   FieldCheckboxGroup,
				Handle: box,
				Label:  p.labeler.fieldLabel(box, FieldCheckboxGroup),
			}
			groups[key] = field
			order = append(order, key)
		}
		field.OptionHandles = append(field.OptionHandles, box)
	}

	success := true
	for _, key := range order {
		if !p.checks.ProcessGroup(groups[key]) {
			success = false
		}
	}
	return success
}

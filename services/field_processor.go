package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Seebrasse345/linkedin-auto-apply/browser"
)

// FieldKind identifies the supported form field kinds.
type FieldKind string

const (
	FieldText          FieldKind = "text"
	FieldTextarea      FieldKind = "textarea"
	FieldSelect        FieldKind = "select"
	FieldRadioGroup    FieldKind = "radio"
	FieldCheckboxGroup FieldKind = "checkbox"
	FieldResume        FieldKind = "resume"
)

// FieldDescriptor describes one field (or field group) discovered on the
// current step. It is rebuilt on every step and never outlives one loop
// iteration.
type FieldDescriptor struct {
	Label   string
	Kind    FieldKind
	Options []string

	// Handle is the element for single-element kinds.
	Handle browser.Element
	// OptionHandles/OptionLabels are the per-option elements for grouped
	// kinds; an OptionLabels entry may be nil.
	OptionHandles []browser.Element
	OptionLabels  []browser.Element
}

var titleCaser = cases.Title(language.English)

// fieldLabeler extracts the question label for a field element via a
// fallback chain: label[for] reference, nearest ancestor label, fieldset
// legend (grouped kinds), structural id decomposition, then a generic
// placeholder.
type fieldLabeler struct {
	drv browser.Driver
}

func (f fieldLabeler) fieldLabel(el browser.Element, kind FieldKind) string {
	if id := el.GetAttribute("id"); id != "" {
		labels := f.drv.Locate(fmt.Sprintf("label[for='%s']", id))
		if labels.Count() > 0 {
			if text := strings.TrimSpace(labels.First().InnerText()); text != "" {
				return text
			}
		}
	}

	parents := el.Locate("xpath=..")
	if parents.Count() > 0 {
		labels := parents.First().Locate("label, .fb-form-element__label, .fb-dash-form-element__label")
		if labels.Count() > 0 {
			if text := strings.TrimSpace(labels.First().InnerText()); text != "" {
				return text
			}
		}
	}

	if kind == FieldRadioGroup || kind == FieldCheckboxGroup {
		if text := legendText(el); text != "" {
			return text
		}
	}

	ancestors := el.Locate("xpath=ancestor::div[contains(@class, 'form-component')][1]")
	if ancestors.Count() > 0 {
		container := ancestors.First()
		labels := container.Locate("label, .fb-form-element__label, legend, h3, h4, .fb-dash-form-element__label")
		if labels.Count() > 0 {
			if text := strings.TrimSpace(labels.First().InnerText()); text != "" {
				return text
			}
		}
		spans := container.Locate("span span")
		if spans.Count() > 0 {
			if text := strings.TrimSpace(spans.First().InnerText()); text != "" {
				return text
			}
		}
	}

	if text := structuralIDLabel(el); text != "" {
		return text
	}

	return fmt.Sprintf("Unlabeled %s", kind)
}

// legendText pulls the question text out of the nearest fieldset legend.
func legendText(el browser.Element) string {
	fieldsets := el.Locate("xpath=ancestor::fieldset[1]")
	if fieldsets.Count() == 0 {
		return ""
	}
	legends := fieldsets.First().Locate("legend")
	if legends.Count() == 0 {
		return ""
	}
	legend := legends.First()
	spans := legend.Locate("span span")
	if spans.Count() > 0 {
		if text := strings.TrimSpace(spans.First().InnerText()); text != "" {
			return text
		}
	}
	return strings.TrimSpace(legend.InnerText())
}

// structuralIDLabel derives a label from a structured form-element id when
// the markup carries no visible label at all.
func structuralIDLabel(el browser.Element) string {
	containers := el.Locate("xpath=ancestor::div[contains(@class, 'fb-dash-form-element')][1]")
	if containers.Count() == 0 {
		return ""
	}
	id := containers.First().GetAttribute("id")
	if id == "" || !strings.Contains(id, "formElement") {
		return ""
	}
	idx := strings.LastIndex(id, "-")
	if idx < 0 || idx == len(id)-1 {
		return ""
	}
	name := strings.ReplaceAll(id[idx+1:], "-", " ")
	return titleCaser.String(name)
}

// escalatingClick attempts a click with the shared escalation strategy:
// direct click with a short timeout, scripted click on the element, then a
// scripted click via a page-level query as last resort. pageQuery may be
// empty when no page-level fallback selector exists.
func escalatingClick(drv browser.Driver, el browser.Element, pageQuery string, timeoutMs float64) error {
	directErr := el.Click(timeoutMs)
	if directErr == nil {
		return nil
	}

	scriptedErr := el.Evaluate("el => el.click()")
	if scriptedErr == nil {
		return nil
	}

	if pageQuery != "" {
		script := fmt.Sprintf(`(() => {
			const el = document.querySelector(%q);
			if (el) { el.click(); return true; }
			return false;
		})()`, pageQuery)
		if pageErr := drv.Evaluate(script); pageErr == nil {
			return nil
		}
	}

	return fmt.Errorf("click failed: direct (%v), scripted (%v)", directErr, scriptedErr)
}

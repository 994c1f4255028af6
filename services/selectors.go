package services

// Selector constants for the Easy Apply flow. Navigation selectors are
// resolved within the application modal; the emergency-exit selectors are
// page scoped.
const (
	EasyApplyButtonSelector = "button.jobs-apply-button"

	SubmitButtonSelector = "button[aria-label='Submit application'], button:has-text('Submit application')"
	DoneButtonSelector   = "button[aria-label='Done'], button[aria-label='Dismiss'], button:has-text('Done'), button:has-text('Dismiss')"

	ApplicationModalSelector = "div.artdeco-modal__content.jobs-easy-apply-modal__content, div.jobs-easy-apply-content"

	// Continue-control candidates, in priority order.
	NextButtonAttrSelector    = "[data-easy-apply-next-button]"
	FooterNextButtonSelector  = "footer button:has-text('Next')"
	ContinueAriaSelector      = "button[aria-label='Continue to next step']"
	ReviewButtonSelector      = "button[aria-label='Review your application'], button:has-text('Review')"
	NextTextButtonSelector    = "button:has-text('Next')"
	StyledButtonSelector      = "button.artdeco-button--primary, button.artdeco-button--secondary"

	// Emergency-exit fallback chains.
	CloseButtonSelector     = "button[aria-label=\"Dismiss\"], button[data-test-modal-close-btn], button.artdeco-modal__dismiss"
	CloseIconSelector       = "button:has(svg[data-test-icon=\"close-medium\"]), button:has(use[href=\"#close-medium\"]), button.artdeco-button--circle"
	DiscardButtonSelector   = "button:has-text(\"Discard\"), button[data-control-name=\"discard_application_confirm_btn\"]"
	DiscardFallbackSelector = "button[data-test-dialog-secondary-btn]:has-text(\"Discard\"), button.artdeco-modal__confirm-dialog-btn:has-text(\"Discard\"), button.artdeco-button--secondary:has-text(\"Discard\")"

	// Page-level scripted-click fallbacks (querySelector compatible).
	SubmitButtonPageQuery = "button[aria-label='Submit application']"

	// Last-resort back control when history navigation fails after a
	// premium-page redirect.
	BackButtonSelector = "button[aria-label=\"Back\"], button[aria-label=\"Go back\"], a[aria-label=\"Back\"]"

	// Form field selectors, scoped to the application modal.
	TextInputSelector     = "input[type='text']:visible, input:not([type]):visible"
	TextareaSelector      = "textarea:visible"
	SelectSelector        = "select:visible"
	RadioFieldsetSelector = "fieldset:has(input[type='radio']), fieldset:has(div[role='radio'])"
	RadioSelector         = "input[type='radio'], div[role='radio']"
	CheckboxSelector      = "input[type='checkbox']:visible, div[role='checkbox']:visible"
	ResumeCardSelector    = "[data-test-resume-selector-resume-card]"
)

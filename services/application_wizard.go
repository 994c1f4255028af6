package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Seebrasse345/linkedin-auto-apply/browser"
	"github.com/Seebrasse345/linkedin-auto-apply/models"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

// SessionSaver persists browser session state on demand.
type SessionSaver interface {
	SaveNow(force bool) bool
}

// WizardConfig bounds the step loop. All termination is counter-bounded;
// no cancellation token is threaded through the loop.
type WizardConfig struct {
	MaxSteps           int
	DuplicateThreshold int
	StuckThreshold     int

	ClickTimeoutMs float64
	RenderWaitMs   float64
	StepWaitMs     float64
	FieldWaitMs    float64
	SubmitWaitMs   float64
}

func DefaultWizardConfig() WizardConfig {
	return WizardConfig{
		MaxSteps:           8,
		DuplicateThreshold: 2,
		StuckThreshold:     5,
		ClickTimeoutMs:     3000,
		RenderWaitMs:       1500,
		StepWaitMs:         1500,
		FieldWaitMs:        800,
		SubmitWaitMs:       2000,
	}
}

// ApplicationWizard drives one multi-step Easy Apply form from entry to a
// terminal outcome. It owns the step loop, loop/stuck detection, the
// continue/submit control search and the emergency-exit recovery path. It
// never lets an error escape to its caller: every attempt ends in exactly
// one of Success, Failure or Incomplete.
type ApplicationWizard struct {
	drv      browser.Driver
	store    *AnswerStore
	oracle   AnswerOracle
	letters  LetterGenerator
	ledger   *LedgerService
	exit     EmergencyCloser
	guard    *RedirectGuard
	session  SessionSaver  // optional
	shots    DebugCapturer // optional
	defaults TextDefaults
	cfg      WizardConfig
}

func NewApplicationWizard(drv browser.Driver, store *AnswerStore, oracle AnswerOracle, letters LetterGenerator, ledger *LedgerService, defaults TextDefaults, cfg WizardConfig) *ApplicationWizard {
	return &ApplicationWizard{
		drv:      drv,
		store:    store,
		oracle:   oracle,
		letters:  letters,
		ledger:   ledger,
		exit:     NewEmergencyExit(drv),
		guard:    NewRedirectGuard(drv),
		defaults: defaults,
		cfg:      cfg,
	}
}

// WithEmergencyExit replaces the default recovery protocol.
func (w *ApplicationWizard) WithEmergencyExit(e EmergencyCloser) *ApplicationWizard {
	w.exit = e
	return w
}

// WithSession attaches the session persistence service; a forced save
// runs after every recorded outcome.
func (w *ApplicationWizard) WithSession(s SessionSaver) *ApplicationWizard {
	w.session = s
	return w
}

// WithDebugCapture attaches the debug screenshot capturer.
func (w *ApplicationWizard) WithDebugCapture(c DebugCapturer) *ApplicationWizard {
	w.shots = c
	return w
}

// StartApplication runs one application attempt and returns its terminal
// outcome. The outcome is recorded in the matching ledger (deduplicated
// by job id) and the session state is force-saved before returning.
func (w *ApplicationWizard) StartApplication(job *models.JobContext) models.ApplicationOutcome {
	utils.Log.Infof("Starting application for %q at %q (id %s)", job.Title, job.Company, job.ID)

	if w.ledger != nil && w.ledger.AlreadyRecorded(job.ID) {
		utils.Log.Infof("Job %s already attempted, skipping", job.ID)
		return w.outcome(models.StatusIncomplete, "already attempted", job)
	}

	out := w.runAttempt(job)

	if w.ledger != nil {
		if err := w.ledger.RecordOutcome(out); err != nil {
			utils.Log.Warnf("Could not record outcome for job %s: %v", job.ID, err)
		}
		if out.Status == models.StatusSuccess {
			if err := w.ledger.SaveJobDescription(job); err != nil {
				utils.Log.Warnf("Could not archive job description for %s: %v", job.ID, err)
			}
		}
	}
	if w.session != nil {
		w.session.SaveNow(true)
	}

	utils.Log.Infof("Application for job %s finished: %s (%s)", job.ID, out.Status, out.Reason)
	return out
}

func (w *ApplicationWizard) runAttempt(job *models.JobContext) (out models.ApplicationOutcome) {
	attemptID := uuid.NewString()[:8]

	// Driver panics are the only errors that can cross this boundary;
	// convert them into a failure outcome after the recovery protocol.
	defer func() {
		if r := recover(); r != nil {
			utils.Log.Errorf("Driver error during attempt %s: %v", attemptID, r)
			out = w.failWithExit(job, fmt.Sprintf("Driver error: %v", r))
		}
	}()

	if !job.EntryAlreadyTriggered {
		entry := w.drv.Locate(EasyApplyButtonSelector)
		if entry.Count() == 0 {
			return w.outcome(models.StatusFailure, "No entry control found", job)
		}
		utils.Log.Info("Clicking entry control")
		if err := entry.First().Click(w.cfg.ClickTimeoutMs); err != nil {
			return w.failWithExit(job, fmt.Sprintf("Entry click failed: %v", err))
		}
	} else {
		utils.Log.Info("Entry control already triggered, waiting for form to render")
	}
	w.drv.WaitForTimeout(w.cfg.RenderWaitMs)
	w.guard.Check()

	form := NewFormProcessor(w.drv, w.store, w.oracle, w.letters, w.defaults, job)

	stepCount := 0
	duplicateCount := 0
	stuckCount := 0
	prevFingerprint := ""
	clickedAlternates := make(map[int]bool)

	for stepCount < w.cfg.MaxSteps {
		stepNum := stepCount + 1
		utils.Log.Infof("Processing application step %d (attempt %s)", stepNum, attemptID)

		modalSet := w.drv.Locate(ApplicationModalSelector)
		if modalSet.Count() == 0 {
			return w.failWithExit(job, fmt.Sprintf("Application modal disappeared at step %d", stepNum))
		}
		modal := modalSet.First()

		html, err := modal.InnerHTML()
		if err != nil {
			return w.failWithExit(job, fmt.Sprintf("Could not read modal content at step %d: %v", stepNum, err))
		}
		fp := stepFingerprint(html)
		if fp == prevFingerprint {
			duplicateCount++
			utils.Log.Warnf("Same form content in consecutive steps (%d/%d)", duplicateCount, w.cfg.DuplicateThreshold)
		} else {
			duplicateCount = 0
			prevFingerprint = fp
		}

		if duplicateCount >= w.cfg.DuplicateThreshold {
			if w.shots != nil {
				w.shots.Capture(fmt.Sprintf("form_loop_step%d_%s", stepNum, attemptID))
			}
			if !w.clickAlternateControl(modal, clickedAlternates) {
				return w.failWithExit(job, fmt.Sprintf("Infinite loop detected at step %d", stepNum))
			}
			// Re-arm so another identical fingerprint retriggers the
			// heuristic immediately instead of waiting out the threshold.
			duplicateCount = w.cfg.DuplicateThreshold - 1
			w.drv.WaitForTimeout(w.cfg.StepWaitMs)
			w.guard.Check()
			continue
		}

		if !form.ProcessFields(modal) {
			utils.Log.Warnf("Some fields failed to process on step %d", stepNum)
		}
		w.drv.WaitForTimeout(w.cfg.FieldWaitMs)

		if modal.Locate(SubmitButtonSelector).Count() > 0 {
			return w.searchSubmit(job, modal, stepNum)
		}

		advanced, found := w.searchContinue(modal)
		if !found {
			return w.failWithExit(job, fmt.Sprintf("No working continue control on step %d", stepNum))
		}
		if advanced {
			stepCount++
			stuckCount = 0
			w.drv.WaitForTimeout(w.cfg.StepWaitMs)
			w.guard.Check()
			continue
		}

		// Candidates existed but every click failed this iteration.
		stuckCount++
		utils.Log.Warnf("Navigation stuck on step %d (%d/%d)", stepNum, stuckCount, w.cfg.StuckThreshold)
		if stuckCount >= w.cfg.StuckThreshold {
			return w.failWithExit(job, fmt.Sprintf("Navigation stuck at step %d", stepNum))
		}
		w.drv.WaitForTimeout(w.cfg.StepWaitMs)
	}

	return w.failWithExit(job, fmt.Sprintf("Max steps reached (%d) without a Submit control", w.cfg.MaxSteps))
}

// searchSubmit clicks the Submit control with the escalating strategy and
// then hunts for the Done/Dismiss control, first inside the possibly
// still-present modal, then globally.
func (w *ApplicationWizard) searchSubmit(job *models.JobContext, modal browser.Element, stepNum int) models.ApplicationOutcome {
	utils.Log.Infof("Found Submit control on step %d, submitting", stepNum)

	submit := modal.Locate(SubmitButtonSelector).First()
	if err := escalatingClick(w.drv, submit, SubmitButtonPageQuery, w.cfg.ClickTimeoutMs); err != nil {
		return w.failWithExit(job, fmt.Sprintf("Submit click failed: %v", err))
	}
	w.drv.WaitForTimeout(w.cfg.SubmitWaitMs)
	w.guard.Check()

	if w.drv.Locate(ApplicationModalSelector).Count() > 0 {
		done := modal.Locate(DoneButtonSelector)
		if done.Count() > 0 {
			utils.Log.Info("Found Done control inside modal, application submitted")
			_ = done.First().Evaluate("button => button.click()")
			w.drv.WaitForTimeout(1000)
			return w.outcome(models.StatusSuccess, "", job)
		}
	}

	done := w.drv.Locate(DoneButtonSelector)
	if done.Count() > 0 {
		utils.Log.Info("Found Done control, application submitted")
		_ = done.First().Evaluate("button => button.click()")
		w.drv.WaitForTimeout(1000)
		return w.outcome(models.StatusSuccess, "", job)
	}

	return w.failWithExit(job, "No Done control after submission")
}

// continueCandidate is one entry of the ordered continue-control list.
type continueCandidate struct {
	name      string
	find      func(modal browser.Element) browser.Element
	pageQuery string
}

// searchContinue walks the ordered candidate list and clicks the first
// non-empty match. found reports whether any candidate matched at all;
// advanced reports whether one of them was successfully clicked.
func (w *ApplicationWizard) searchContinue(modal browser.Element) (advanced, found bool) {
	candidates := []continueCandidate{
		{
			name: "next-marker attribute",
			find: func(m browser.Element) browser.Element {
				return firstOf(m.Locate(NextButtonAttrSelector))
			},
		},
		{
			name: "footer Next",
			find: func(m browser.Element) browser.Element {
				return firstOf(m.Locate(FooterNextButtonSelector))
			},
		},
		{
			name:      "continue aria-label",
			pageQuery: ContinueAriaSelector,
			find: func(m browser.Element) browser.Element {
				return firstOf(m.Locate(ContinueAriaSelector))
			},
		},
		{
			name: "review control",
			find: func(m browser.Element) browser.Element {
				return firstOf(m.Locate(ReviewButtonSelector))
			},
		},
		{
			name: "Next text",
			find: func(m browser.Element) browser.Element {
				return firstOf(m.Locate(NextTextButtonSelector))
			},
		},
		{
			name: "last styled control",
			find: func(m browser.Element) browser.Element {
				set := m.Locate(StyledButtonSelector)
				n := set.Count()
				if n == 0 {
					return nil
				}
				last := set.Nth(n - 1)
				if !isContinueLike(last.InnerText()) {
					return nil
				}
				return last
			},
		},
	}

	for _, c := range candidates {
		el := c.find(modal)
		if el == nil {
			continue
		}
		found = true
		utils.Log.Infof("Trying continue candidate: %s", c.name)
		if err := escalatingClick(w.drv, el, c.pageQuery, w.cfg.ClickTimeoutMs); err != nil {
			utils.Log.Warnf("Continue candidate %s failed: %v", c.name, err)
			continue
		}
		return true, true
	}
	return false, found
}

// clickAlternateControl is the duplicate-state heuristic: scan every
// button in the modal for continue-like text and click the first one not
// previously tried, skipping the primary control at index 0.
func (w *ApplicationWizard) clickAlternateControl(modal browser.Element, clicked map[int]bool) bool {
	buttons := modal.Locate("button")
	for i := 1; i < buttons.Count(); i++ {
		if clicked[i] {
			continue
		}
		button := buttons.Nth(i)
		text := button.InnerText()
		if !isContinueLike(text) {
			continue
		}
		utils.Log.Infof("Trying alternate control %d with text %q", i, strings.TrimSpace(text))
		if err := escalatingClick(w.drv, button, "", w.cfg.ClickTimeoutMs); err != nil {
			utils.Log.Warnf("Alternate control %d failed: %v", i, err)
			continue
		}
		clicked[i] = true
		return true
	}
	return false
}

var continueKeywords = []string{"next", "continue", "proceed", "submit", "review"}

func isContinueLike(text string) bool {
	folded := normalizeLabel(text)
	for _, kw := range continueKeywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

func firstOf(set browser.ElementSet) browser.Element {
	if set.Count() == 0 {
		return nil
	}
	return set.First()
}

// failWithExit runs the emergency-exit protocol and returns a failure
// outcome. The verified-closure boolean only annotates the reason string;
// it never changes the outcome kind.
func (w *ApplicationWizard) failWithExit(job *models.JobContext, reason string) models.ApplicationOutcome {
	closed := w.exit.Run()
	if !closed {
		reason += " (modal not confirmed closed)"
	}
	return w.outcome(models.StatusFailure, reason, job)
}

func (w *ApplicationWizard) outcome(status models.ApplicationStatus, reason string, job *models.JobContext) models.ApplicationOutcome {
	return models.ApplicationOutcome{
		Status:    status,
		Reason:    reason,
		Timestamp: time.Now(),
		Job:       job,
	}
}

// stepFingerprint snapshots the modal content for equality comparison
// across consecutive iterations.
func stepFingerprint(html string) string {
	sum := sha256.Sum256([]byte(html))
	return hex.EncodeToString(sum[:])
}

package services

import (
	"fmt"

	"github.com/Seebrasse345/linkedin-auto-apply/browser"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

// EmergencyCloser forcibly closes a stuck application form.
type EmergencyCloser interface {
	// Run attempts the close/discard sequence and reports whether the
	// form container is verifiably gone.
	Run() bool
}

// EmergencyExit is the recovery sub-procedure for stuck applications:
// click a Close control, click the Discard confirmation if one appears,
// verify the modal is gone. Every step is best-effort with an ordered
// selector fallback chain, and the whole procedure is idempotent: when the
// modal is already absent it returns true without touching the page.
type EmergencyExit struct {
	drv browser.Driver
}

func NewEmergencyExit(drv browser.Driver) *EmergencyExit {
	return &EmergencyExit{drv: drv}
}

func (e *EmergencyExit) Run() bool {
	if e.drv.Locate(ApplicationModalSelector).Count() == 0 {
		utils.Log.Info("Emergency exit: modal already absent")
		return true
	}

	utils.Log.Warn("Emergency exit: attempting to close stuck application")

	e.clickFirstAvailable("close", []string{CloseButtonSelector, CloseIconSelector},
		"button[aria-label=\"Dismiss\"], button.artdeco-modal__dismiss")
	e.drv.WaitForTimeout(1000)

	// A discard confirmation dialog usually follows the close click.
	e.clickFirstAvailable("discard", []string{DiscardButtonSelector, DiscardFallbackSelector},
		"button[data-control-name=\"discard_application_confirm_btn\"]")
	e.drv.WaitForTimeout(1000)

	closed := e.drv.Locate(ApplicationModalSelector).Count() == 0
	if closed {
		utils.Log.Info("Emergency exit: modal closed")
	} else {
		utils.Log.Warn("Emergency exit: modal still present after close/discard attempts")
	}
	return closed
}

// clickFirstAvailable walks the selector chain and clicks the first
// matching element, escalating to a scripted page-level query as last
// resort. Never returns an error; each step is best-effort.
func (e *EmergencyExit) clickFirstAvailable(what string, selectors []string, pageQuery string) {
	for _, sel := range selectors {
		set := e.drv.Locate(sel)
		if set.Count() == 0 {
			continue
		}
		el := set.First()
		if err := el.Click(2000); err == nil {
			utils.Log.Infof("Emergency exit: clicked %s control via %q", what, sel)
			return
		}
		if err := el.Evaluate("el => el.click()"); err == nil {
			utils.Log.Infof("Emergency exit: script-clicked %s control via %q", what, sel)
			return
		}
	}

	if pageQuery != "" {
		script := fmt.Sprintf(`(() => {
			const el = document.querySelector(%q);
			if (el) { el.click(); return true; }
			return false;
		})()`, pageQuery)
		if err := e.drv.Evaluate(script); err == nil {
			utils.Log.Infof("Emergency exit: page-level scripted click for %s control", what)
			return
		}
	}

	utils.Log.Warnf("Emergency exit: no %s control responded", what)
}

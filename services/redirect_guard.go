package services

import (
	"strings"

	"github.com/Seebrasse345/linkedin-auto-apply/browser"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

const premiumURLMarker = "linkedin.com/premium"

// IsPremiumURL reports whether a URL points at the premium upsell page
// LinkedIn sometimes redirects to mid-application.
func IsPremiumURL(url string) bool {
	return strings.Contains(strings.ToLower(url), premiumURLMarker)
}

// RedirectGuard detects a premium-page redirect and navigates back to
// the interrupted flow, first through history, then through a visible
// back control.
type RedirectGuard struct {
	drv browser.Driver
}

func NewRedirectGuard(drv browser.Driver) *RedirectGuard {
	return &RedirectGuard{drv: drv}
}

// Check inspects the current URL and recovers from a premium redirect.
// It reports whether a redirect was detected, even when the back
// navigation itself failed.
func (g *RedirectGuard) Check() bool {
	url := g.drv.URL()
	if !IsPremiumURL(url) {
		return false
	}
	utils.Log.Warnf("Premium page redirect detected: %s", url)

	if err := g.drv.GoBack(); err != nil {
		utils.Log.Warnf("History navigation failed: %v", err)
		back := g.drv.Locate(BackButtonSelector)
		if back.Count() > 0 {
			if err := back.First().Click(5000); err != nil {
				utils.Log.Warnf("Back control click failed: %v", err)
			}
		}
	}
	g.drv.WaitForTimeout(2000)
	utils.Log.Infof("Resumed at %s after premium redirect", g.drv.URL())
	return true
}

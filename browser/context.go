package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/Seebrasse345/linkedin-auto-apply/config"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

const feedURL = "https://www.linkedin.com/feed/"

// Session bundles the live Playwright handles for one automation run.
type Session struct {
	PW      *playwright.Playwright
	Browser playwright.Browser
	Context playwright.BrowserContext
	Page    playwright.Page

	// StatePath is where the browser storage state is persisted.
	StatePath string
}

// Close tears down the browser stack in reverse order of creation.
func (s *Session) Close() {
	if s.Browser != nil {
		_ = s.Browser.Close()
	}
	if s.PW != nil {
		_ = s.PW.Stop()
	}
}

// LaunchAuthenticated starts a Chromium browser, restores any saved
// storage state for the configured account and ensures the page is logged
// in, performing an interactive login when the cookies are missing or
// stale.
func LaunchAuthenticated(cfg *config.Config) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Runtime.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-blink-features=AutomationControlled",
			"--disable-extensions",
			"--disable-plugins-discovery",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	statePath := storageStatePath(cfg)
	ctxOpts := playwright.BrowserNewContextOptions{}
	if _, statErr := os.Stat(statePath); statErr == nil {
		utils.Log.Infof("Restoring browser state from %s", statePath)
		ctxOpts.StorageStatePath = playwright.String(statePath)
	} else {
		utils.Log.Info("No saved browser state found, interactive login may be required")
	}

	context, err := browser.NewContext(ctxOpts)
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("create browser context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("create page: %w", err)
	}

	sess := &Session{PW: pw, Browser: browser, Context: context, Page: page, StatePath: statePath}

	if _, err := page.Goto(feedURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(60000),
	}); err != nil {
		sess.Close()
		return nil, fmt.Errorf("open feed page: %w", err)
	}

	// Small delay for cookie-based redirects to settle.
	page.WaitForTimeout(2000)

	if !strings.Contains(page.URL(), "/feed/") {
		utils.Log.Info("Not on feed page, performing interactive login")
		if err := performLogin(page, cfg); err != nil {
			sess.Close()
			return nil, err
		}
		if _, err := context.StorageState(statePath); err != nil {
			utils.Log.Warnf("Could not save storage state after login: %v", err)
		} else {
			utils.Log.Infof("Session state saved to %s", statePath)
		}
	} else {
		utils.Log.Info("Already logged in via saved session state")
	}

	return sess, nil
}

func performLogin(page playwright.Page, cfg *config.Config) error {
	// Cookie consent banner often covers the login form.
	if sel := cfg.Runtime.AcceptCookiesSelector; sel != "" {
		accept := page.Locator(sel)
		if visible, _ := accept.IsVisible(); visible {
			utils.Log.Info("Accepting cookie consent banner")
			_ = accept.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(5000)})
		}
	}

	emailInput := page.GetByRole(*playwright.AriaRoleTextbox, playwright.PageGetByRoleOptions{
		Name: "Email or phone",
	})
	passwordInput := page.GetByRole(*playwright.AriaRoleTextbox, playwright.PageGetByRoleOptions{
		Name: "Password",
	})
	signIn := page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{
		Name:  "Sign in",
		Exact: playwright.Bool(true),
	})

	if err := emailInput.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(15000),
	}); err != nil {
		return fmt.Errorf("login form did not load: %w", err)
	}

	utils.Log.Info("Filling login credentials")
	if err := emailInput.Fill(cfg.Credentials.Username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := passwordInput.Fill(cfg.Credentials.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := signIn.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(10000)}); err != nil {
		return fmt.Errorf("click sign in: %w", err)
	}

	if err := page.WaitForURL("**/feed/**", playwright.PageWaitForURLOptions{
		Timeout:   playwright.Float(45000),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		if strings.Contains(page.URL(), "checkpoint/challenge") || strings.Contains(page.URL(), "login/challenge") {
			return fmt.Errorf("login blocked by a security challenge, manual intervention required")
		}
		return fmt.Errorf("login did not reach the feed page: %w", err)
	}

	utils.Log.Info("Login successful")
	return nil
}

func storageStatePath(cfg *config.Config) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, cfg.Credentials.Username)
	_ = os.MkdirAll(cfg.Runtime.CookieDir, 0o755)
	return filepath.Join(cfg.Runtime.CookieDir, safe+".json")
}

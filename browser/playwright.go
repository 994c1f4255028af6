package browser

import (
	"github.com/playwright-community/playwright-go"
)

// PageDriver adapts a Playwright page to the Driver interface.
type PageDriver struct {
	page playwright.Page
}

func NewPageDriver(page playwright.Page) *PageDriver {
	return &PageDriver{page: page}
}

// Page exposes the underlying Playwright page for callers that need the
// raw handle (session persistence, navigation).
func (d *PageDriver) Page() playwright.Page {
	return d.page
}

func (d *PageDriver) Locate(selector string) ElementSet {
	return &locatorSet{loc: d.page.Locator(selector)}
}

func (d *PageDriver) Evaluate(script string) error {
	_, err := d.page.Evaluate(script)
	return err
}

func (d *PageDriver) WaitForTimeout(ms float64) {
	d.page.WaitForTimeout(ms)
}

func (d *PageDriver) Screenshot(path string) error {
	_, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (d *PageDriver) URL() string {
	return d.page.URL()
}

func (d *PageDriver) GoBack() error {
	_, err := d.page.GoBack(playwright.PageGoBackOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(10000),
	})
	return err
}

type locatorSet struct {
	loc playwright.Locator
}

func (s *locatorSet) Count() int {
	n, err := s.loc.Count()
	if err != nil {
		return 0
	}
	return n
}

func (s *locatorSet) First() Element {
	return &locatorElement{loc: s.loc.First()}
}

func (s *locatorSet) Nth(i int) Element {
	return &locatorElement{loc: s.loc.Nth(i)}
}

type locatorElement struct {
	loc playwright.Locator
}

func (e *locatorElement) Click(timeoutMs float64) error {
	return e.loc.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(timeoutMs),
	})
}

func (e *locatorElement) Fill(text string) error {
	return e.loc.Fill(text)
}

func (e *locatorElement) Check() error {
	return e.loc.Check()
}

func (e *locatorElement) Uncheck() error {
	return e.loc.Uncheck()
}

func (e *locatorElement) IsChecked() (bool, error) {
	return e.loc.IsChecked()
}

func (e *locatorElement) SelectOptionByLabel(label string) error {
	_, err := e.loc.SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{label},
	})
	return err
}

func (e *locatorElement) GetAttribute(name string) string {
	v, err := e.loc.GetAttribute(name)
	if err != nil {
		return ""
	}
	return v
}

func (e *locatorElement) InnerText() string {
	v, err := e.loc.InnerText()
	if err != nil {
		return ""
	}
	return v
}

func (e *locatorElement) InnerHTML() (string, error) {
	return e.loc.InnerHTML()
}

func (e *locatorElement) Evaluate(script string) error {
	_, err := e.loc.Evaluate(script, nil)
	return err
}

func (e *locatorElement) IsVisible() bool {
	v, err := e.loc.IsVisible()
	if err != nil {
		return false
	}
	return v
}

func (e *locatorElement) Locate(selector string) ElementSet {
	return &locatorSet{loc: e.loc.Locator(selector)}
}

package browser

// Driver is the page-automation surface the application engine runs
// against. The production implementation wraps a Playwright page; tests
// substitute an in-memory fake so the step loop can be exercised without
// a live browser.
type Driver interface {
	// Locate resolves a selector against the whole document.
	Locate(selector string) ElementSet
	// Evaluate runs a script in the page context.
	Evaluate(script string) error
	// WaitForTimeout blocks the calling flow for the given milliseconds.
	WaitForTimeout(ms float64)
	// Screenshot captures a full-page screenshot to the given path.
	Screenshot(path string) error
	// URL returns the current page URL.
	URL() string
	// GoBack navigates to the previous history entry.
	GoBack() error
}

// ElementSet is a lazily resolved set of matching elements.
type ElementSet interface {
	Count() int
	First() Element
	Nth(i int) Element
}

// Element is a single located element. Attribute and text getters swallow
// driver errors and return zero values; interaction methods surface them.
type Element interface {
	Click(timeoutMs float64) error
	Fill(text string) error
	Check() error
	Uncheck() error
	IsChecked() (bool, error)
	SelectOptionByLabel(label string) error
	GetAttribute(name string) string
	InnerText() string
	InnerHTML() (string, error)
	Evaluate(script string) error
	IsVisible() bool
	// Locate resolves a selector scoped to this element.
	Locate(selector string) ElementSet
}

package services

import (
	"github.com/Seebrasse345/linkedin-auto-apply/browser"
	"github.com/Seebrasse345/linkedin-auto-apply/models"
)

// fakeElement is an in-memory stand-in for a page element. Children are
// registered per selector, so tests can model exactly the DOM shape a
// code path queries.
type fakeElement struct {
	text    string
	html    string
	htmlFn  func() string
	attrs   map[string]string
	visible bool
	checked bool

	children map[string][]*fakeElement

	clickErr error
	evalErr  error
	onClick  func()

	clicks   int
	evals    int
	filled   []string
	selected []string
	checks   int
	unchecks int
}

func newFakeElement() *fakeElement {
	return &fakeElement{
		attrs:    make(map[string]string),
		visible:  true,
		children: make(map[string][]*fakeElement),
	}
}

func (e *fakeElement) withText(text string) *fakeElement {
	e.text = text
	return e
}

func (e *fakeElement) withAttr(name, value string) *fakeElement {
	e.attrs[name] = value
	return e
}

func (e *fakeElement) withChildren(selector string, kids ...*fakeElement) *fakeElement {
	e.children[selector] = append(e.children[selector], kids...)
	return e
}

func (e *fakeElement) Click(timeoutMs float64) error {
	e.clicks++
	if e.onClick != nil && e.clickErr == nil {
		e.onClick()
	}
	return e.clickErr
}

func (e *fakeElement) Fill(text string) error {
	e.filled = append(e.filled, text)
	return nil
}

func (e *fakeElement) Check() error {
	e.checks++
	e.checked = true
	return nil
}

func (e *fakeElement) Uncheck() error {
	e.unchecks++
	e.checked = false
	return nil
}

func (e *fakeElement) IsChecked() (bool, error) {
	return e.checked, nil
}

func (e *fakeElement) SelectOptionByLabel(label string) error {
	e.selected = append(e.selected, label)
	return nil
}

func (e *fakeElement) GetAttribute(name string) string {
	return e.attrs[name]
}

func (e *fakeElement) InnerText() string {
	return e.text
}

func (e *fakeElement) InnerHTML() (string, error) {
	if e.htmlFn != nil {
		return e.htmlFn(), nil
	}
	return e.html, nil
}

func (e *fakeElement) Evaluate(script string) error {
	e.evals++
	if e.onClick != nil && e.evalErr == nil {
		e.onClick()
	}
	return e.evalErr
}

func (e *fakeElement) IsVisible() bool {
	return e.visible
}

func (e *fakeElement) Locate(selector string) browser.ElementSet {
	return fakeSet(e.children[selector])
}

type fakeSet []*fakeElement

func (s fakeSet) Count() int {
	return len(s)
}

func (s fakeSet) First() browser.Element {
	return s[0]
}

func (s fakeSet) Nth(i int) browser.Element {
	return s[i]
}

// fakeDriver serves page-level lookups from a root element; locateFn
// overrides it for tests that need the page to change between lookups.
type fakeDriver struct {
	root     *fakeElement
	locateFn func(selector string) []*fakeElement

	evalScripts []string
	evalErr     error
	waits       []float64
	shots       []string
	url         string
	backs       int
	backErr     error
	onBack      func()
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{root: newFakeElement()}
}

func (d *fakeDriver) Locate(selector string) browser.ElementSet {
	if d.locateFn != nil {
		return fakeSet(d.locateFn(selector))
	}
	return fakeSet(d.root.children[selector])
}

func (d *fakeDriver) Evaluate(script string) error {
	d.evalScripts = append(d.evalScripts, script)
	return d.evalErr
}

func (d *fakeDriver) WaitForTimeout(ms float64) {
	d.waits = append(d.waits, ms)
}

func (d *fakeDriver) Screenshot(path string) error {
	d.shots = append(d.shots, path)
	return nil
}

func (d *fakeDriver) URL() string {
	return d.url
}

func (d *fakeDriver) GoBack() error {
	d.backs++
	if d.backErr != nil {
		return d.backErr
	}
	if d.onBack != nil {
		d.onBack()
	}
	return nil
}

// stubOracle records every question it is asked and returns a fixed
// answer, or an error.
type stubOracle struct {
	answer    string
	err       error
	calls     int
	questions []string
}

func (o *stubOracle) Resolve(question, fieldKind string, options []string, job *models.JobContext) (string, error) {
	o.calls++
	o.questions = append(o.questions, question)
	return o.answer, o.err
}

type stubExit struct {
	result bool
	runs   int
}

func (e *stubExit) Run() bool {
	e.runs++
	return e.result
}

type stubLetters struct {
	letter string
	calls  int
}

func (l *stubLetters) Generate(job *models.JobContext, answers map[string]string) string {
	l.calls++
	return l.letter
}

func mustStore(t interface{ Fatalf(string, ...any) }, path string) *AnswerStore {
	store, err := NewAnswerStore(path)
	if err != nil {
		t.Fatalf("NewAnswerStore: %v", err)
	}
	return store
}

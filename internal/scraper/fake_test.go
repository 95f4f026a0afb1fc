package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/nexconsult/courtcase-api/internal/browser"
	"github.com/nexconsult/courtcase-api/internal/config"
)

const testOrigin = "https://portal.example"

// fakeSession serves canned pages and fails on demand. Keys of failOn are
// method names; panicOn makes that method panic instead.
type fakeSession struct {
	mu sync.Mutex

	pages      map[string]string // url -> markup
	resultPage string            // markup shown after the submit click
	captcha    string
	options    map[string][]string

	failOn  map[string]error
	panicOn string

	current string
	calls   []string
	typed   map[string]string
	chosen  map[string]string
	visited []string
	closed  int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		pages:   map[string]string{},
		options: map[string][]string{},
		failOn:  map[string]error{},
		typed:   map[string]string{},
		chosen:  map[string]string{},
	}
}

func (f *fakeSession) step(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.panicOn == name {
		panic("boom in " + name)
	}
	return f.failOn[name]
}

func (f *fakeSession) Navigate(_ context.Context, url string) error {
	if err := f.step("Navigate"); err != nil {
		return err
	}
	markup, ok := f.pages[url]
	if !ok {
		return fmt.Errorf("no such page %s", url)
	}
	f.visited = append(f.visited, url)
	f.current = markup
	return nil
}

func (f *fakeSession) WaitPresent(_ context.Context, _ string) error {
	return f.step("WaitPresent")
}

func (f *fakeSession) Locate(_ context.Context, _ string) error {
	return f.step("Locate")
}

func (f *fakeSession) Text(_ context.Context, selector string) (string, error) {
	if err := f.step("Text"); err != nil {
		return "", err
	}
	return f.captcha, nil
}

func (f *fakeSession) SelectByText(_ context.Context, selector, label string) error {
	if err := f.step("SelectByText"); err != nil {
		return err
	}
	for _, opt := range f.options[selector] {
		if opt == label {
			f.chosen[selector] = label
			return nil
		}
	}
	return fmt.Errorf("%w: %q", browser.ErrOptionNotFound, label)
}

func (f *fakeSession) SetValue(_ context.Context, selector, value string) error {
	if err := f.step("SetValue"); err != nil {
		return err
	}
	f.typed[selector] = value
	return nil
}

func (f *fakeSession) ScrollIntoView(_ context.Context, _ string) error {
	return f.step("ScrollIntoView")
}

func (f *fakeSession) ClickWhenReady(_ context.Context, _ string) error {
	if err := f.step("ClickWhenReady"); err != nil {
		return err
	}
	f.current = f.resultPage
	return nil
}

func (f *fakeSession) HTML(_ context.Context) (string, error) {
	if err := f.step("HTML"); err != nil {
		return "", err
	}
	return f.current, nil
}

func (f *fakeSession) OptionLabels(_ context.Context, selector string) ([]string, error) {
	if err := f.step("OptionLabels"); err != nil {
		return nil, err
	}
	return f.options[selector], nil
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

type fakeLauncher struct {
	session *fakeSession
	err     error
	opens   int
}

func (l *fakeLauncher) Open(_ context.Context) (browser.Session, error) {
	l.opens++
	if l.err != nil {
		return nil, l.err
	}
	return l.session, nil
}

func testPortal() config.PortalConfig {
	return config.PortalConfig{
		BaseURL:            testOrigin,
		SearchPath:         "/app/get-case-type-status",
		CaseTypeSelector:   `select[name="case_type"]`,
		CaseNumberSelector: `input[name="case_number"]`,
		CaseYearSelector:   `select[name="case_year"]`,
		CaptchaSelector:    "#captcha-code",
		CaptchaInput:       "#captchaInput",
		SubmitSelector:     "#search",
		ResultTableID:      "caseTable",
	}
}

func testLookupConfig() config.LookupConfig {
	return config.LookupConfig{
		ElementTimeout:       time.Second,
		Timeout:              5 * time.Second,
		MaxConcurrentLookups: 1,
		MaxBatchSize:         10,
	}
}

func nullLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

const searchPage = `<html><body>
<form>
  <select name="case_type"><option value="">Select</option><option>W.P.(C)</option><option>CRL.A.</option></select>
  <input name="case_number">
  <select name="case_year"><option>2025</option><option>2024</option></select>
  <span id="captcha-code">4821</span>
  <input id="captchaInput">
  <button id="search">Search</button>
</form>
</body></html>`

const foundResultPage = `<html><body>
<table id="caseTable">
  <thead><tr><th>S.No.</th><th>Status</th><th>Parties</th><th>Listing</th></tr></thead>
  <tbody>
    <tr>
      <td><a href="/orders/123">1</a></td>
      <td>Pending</td>
      <td>A   vs
          B</td>
      <td>12-Jan-2025, Court 5</td>
    </tr>
    <tr><td>2</td><td>Disposed</td><td>C vs D</td><td>01-Feb-2024</td></tr>
  </tbody>
</table>
</body></html>`

const orderPage = `<html><body>
<table id="caseTable">
  <tbody>
    <tr><td>1</td><td><a href="/docs/a.pdf">Order 1</a></td></tr>
    <tr><td>2</td><td><a href="https://other.host/docs/b.PDF">Order 2</a></td></tr>
    <tr><td>3</td><td><a href="/docs/notes.html">Notes</a></td></tr>
  </tbody>
</table>
</body></html>`

// newPortalSession returns a session that walks the full happy path
func newPortalSession() *fakeSession {
	s := newFakeSession()
	portal := testPortal()
	s.pages[portal.SearchURL()] = searchPage
	s.pages[testOrigin+"/orders/123"] = orderPage
	s.resultPage = foundResultPage
	s.captcha = " 4821 "
	s.options[portal.CaseTypeSelector] = []string{"W.P.(C)", "CRL.A."}
	s.options[portal.CaseYearSelector] = []string{"2025", "2024"}
	return s
}

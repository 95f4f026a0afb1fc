package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/courtcase-api/internal/config"
	"github.com/nexconsult/courtcase-api/internal/logger"
)

// chromeBinaryNames are tried in order when no binary path is configured
var chromeBinaryNames = []string{
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/usr/bin/google-chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
}

// FindChromePath returns the first Chrome/Chromium binary found, or ""
func FindChromePath() string {
	for _, name := range chromeBinaryNames {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// ChromeLauncher starts one Chrome process per session
type ChromeLauncher struct {
	config         config.BrowserConfig
	elementTimeout time.Duration
	logger         *logrus.Logger

	opened atomic.Int64
	active atomic.Int64
	failed atomic.Int64
}

// NewChromeLauncher creates a launcher with the deployment's browser options
func NewChromeLauncher(cfg config.BrowserConfig, elementTimeout time.Duration, logger *logrus.Logger) *ChromeLauncher {
	if elementTimeout <= 0 {
		elementTimeout = 10 * time.Second
	}
	return &ChromeLauncher{
		config:         cfg,
		elementTimeout: elementTimeout,
		logger:         logger,
	}
}

// launchFlags are the Chrome switches set on top of chromedp's defaults
func (l *ChromeLauncher) launchFlags() map[string]interface{} {
	return map[string]interface{}{
		"headless":                      l.config.Headless,
		"disable-gpu":                   true,
		"no-sandbox":                    l.config.NoSandbox,
		"disable-dev-shm-usage":         true,
		"disable-extensions":            true,
		"disable-background-networking": true,
		"disable-sync":                  true,
		"no-first-run":                  true,
		"no-default-browser-check":      true,
	}
}

// execPath is the configured binary, or the first well-known one found
func (l *ChromeLauncher) execPath() string {
	if l.config.BinaryPath != "" {
		return l.config.BinaryPath
	}
	return FindChromePath()
}

// allocatorOptions builds the chromedp options for every session
func (l *ChromeLauncher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	for name, value := range l.launchFlags() {
		opts = append(opts, chromedp.Flag(name, value))
	}

	if l.config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(l.config.UserAgent))
	}
	if l.config.WindowWidth > 0 && l.config.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(l.config.WindowWidth, l.config.WindowHeight))
	}
	if binary := l.execPath(); binary != "" {
		opts = append(opts, chromedp.ExecPath(binary))
	}

	return opts
}

// Open spawns a browser process. The session lives until Close is called
// or ctx ends, whichever comes first.
func (l *ChromeLauncher) Open(ctx context.Context) (Session, error) {
	id := "browser-" + uuid.NewString()[:8]
	log := logger.Component(l.logger, "browser").WithField("browser_id", id)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, l.allocatorOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser process.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		l.failed.Add(1)
		log.WithError(err).Error("Failed to start browser")
		return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}

	log.Debug("Browser started")

	return l.track(id, tabCtx, func() {
		tabCancel()
		allocCancel()
	}, log), nil
}

// track counts a started browser and wraps it in a session whose Close
// runs release and gives the active slot back exactly once
func (l *ChromeLauncher) track(id string, tabCtx context.Context, release func(), log *logrus.Entry) *chromeSession {
	l.opened.Add(1)
	l.active.Add(1)

	return &chromeSession{
		id:             id,
		ctx:            tabCtx,
		elementTimeout: l.elementTimeout,
		logger:         log,
		cancel: func() {
			release()
			l.active.Add(-1)
		},
	}
}

// Stats returns launcher counters
func (l *ChromeLauncher) Stats() map[string]interface{} {
	return map[string]interface{}{
		"opened_sessions": l.opened.Load(),
		"active_sessions": l.active.Load(),
		"failed_launches": l.failed.Load(),
		"headless":        l.config.Headless,
	}
}

// chromeSession implements Session on top of a chromedp tab
type chromeSession struct {
	id             string
	ctx            context.Context
	elementTimeout time.Duration
	logger         *logrus.Entry

	closeOnce sync.Once
	cancel    func()
}

// scope derives a run context from the tab, bounded by timeout (if > 0) and
// cancelled together with ctx.
func (s *chromeSession) scope(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var runCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(s.ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(s.ctx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// classify turns a timed-out element wait into sentinel, unless the whole
// session has expired.
func (s *chromeSession) classify(err error, sentinel error, selector string) error {
	if err == nil {
		return nil
	}
	if s.ctx.Err() != nil {
		return fmt.Errorf("browser session ended: %w", s.ctx.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", sentinel, selector)
	}
	return err
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	s.logger.WithField("url", url).Debug("Navigating")

	runCtx, cancel := s.scope(ctx, 0)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (s *chromeSession) WaitPresent(ctx context.Context, selector string) error {
	runCtx, cancel := s.scope(ctx, s.elementTimeout)
	defer cancel()

	err := chromedp.Run(runCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
	return s.classify(err, ErrElementNotFound, selector)
}

func (s *chromeSession) Locate(ctx context.Context, selector string) error {
	runCtx, cancel := s.scope(ctx, s.elementTimeout)
	defer cancel()

	var nodes []*cdp.Node
	err := chromedp.Run(runCtx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return s.classify(err, ErrElementNotFound, selector)
	}
	if len(nodes) == 0 {
		return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return nil
}

func (s *chromeSession) Text(ctx context.Context, selector string) (string, error) {
	if err := s.Locate(ctx, selector); err != nil {
		return "", err
	}

	runCtx, cancel := s.scope(ctx, s.elementTimeout)
	defer cancel()

	var text string
	err := chromedp.Run(runCtx, chromedp.Text(selector, &text, chromedp.ByQuery))
	if err != nil {
		return "", s.classify(err, ErrElementNotFound, selector)
	}
	return text, nil
}

const selectByTextScript = `(function(sel, label) {
	const el = document.querySelector(sel);
	if (!el || !el.options) { return "missing"; }
	const norm = (t) => t.replace(/\s+/g, " ").trim();
	const opt = Array.from(el.options).find((o) => norm(o.text) === label);
	if (!opt) { return "no_option"; }
	el.value = opt.value;
	opt.selected = true;
	el.dispatchEvent(new Event("input", { bubbles: true }));
	el.dispatchEvent(new Event("change", { bubbles: true }));
	return "ok";
})(%s, %s)`

var whitespaceRun = regexp.MustCompile(`\s+`)

func (s *chromeSession) SelectByText(ctx context.Context, selector, label string) error {
	if err := s.Locate(ctx, selector); err != nil {
		return err
	}

	script, err := jsCall(selectByTextScript, selector, whitespaceRun.ReplaceAllString(strings.TrimSpace(label), " "))
	if err != nil {
		return err
	}

	runCtx, cancel := s.scope(ctx, s.elementTimeout)
	defer cancel()

	var result string
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &result)); err != nil {
		return s.classify(err, ErrElementNotFound, selector)
	}

	switch result {
	case "ok":
		return nil
	case "no_option":
		return fmt.Errorf("%w: %q in %s", ErrOptionNotFound, label, selector)
	default:
		return fmt.Errorf("%w: %s is not a dropdown", ErrElementNotFound, selector)
	}
}

func (s *chromeSession) SetValue(ctx context.Context, selector, value string) error {
	if err := s.Locate(ctx, selector); err != nil {
		return err
	}

	runCtx, cancel := s.scope(ctx, s.elementTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
	return s.classify(err, ErrElementNotInteractable, selector)
}

func (s *chromeSession) ScrollIntoView(ctx context.Context, selector string) error {
	if err := s.Locate(ctx, selector); err != nil {
		return err
	}

	runCtx, cancel := s.scope(ctx, s.elementTimeout)
	defer cancel()

	err := chromedp.Run(runCtx, chromedp.ScrollIntoView(selector, chromedp.ByQuery))
	return s.classify(err, ErrElementNotInteractable, selector)
}

func (s *chromeSession) ClickWhenReady(ctx context.Context, selector string) error {
	if err := s.Locate(ctx, selector); err != nil {
		return err
	}

	runCtx, cancel := s.scope(ctx, s.elementTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.WaitEnabled(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
	return s.classify(err, ErrElementNotInteractable, selector)
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	runCtx, cancel := s.scope(ctx, s.elementTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", s.classify(err, ErrElementNotFound, "html")
	}
	return html, nil
}

const optionLabelsScript = `(function(sel) {
	const el = document.querySelector(sel);
	if (!el || !el.options) { return []; }
	return Array.from(el.options).map((o) => o.text);
})(%s)`

func (s *chromeSession) OptionLabels(ctx context.Context, selector string) ([]string, error) {
	if err := s.Locate(ctx, selector); err != nil {
		return nil, err
	}

	script, err := jsCall(optionLabelsScript, selector)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := s.scope(ctx, s.elementTimeout)
	defer cancel()

	var labels []string
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &labels)); err != nil {
		return nil, s.classify(err, ErrElementNotFound, selector)
	}
	return labels, nil
}

func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.logger.Debug("Browser closed")
	})
	return nil
}

// jsCall fills a script template with JSON-encoded string arguments
func jsCall(template string, args ...string) (string, error) {
	encoded := make([]any, len(args))
	for i, arg := range args {
		b, err := json.Marshal(arg)
		if err != nil {
			return "", fmt.Errorf("encode script argument: %w", err)
		}
		encoded[i] = string(b)
	}
	return fmt.Sprintf(template, encoded...), nil
}

// Package browser renders documents in headless Chrome and exposes the
// rendered page as a livedoc.Document, so selector relevance is decided by
// the browser's own selector engine.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/htmlsnap/internal/logger"
	"github.com/jmylchreest/htmlsnap/internal/version"
	"github.com/jmylchreest/htmlsnap/pkg/livedoc"
)

// ErrNoChrome is returned when no Chrome binary can be located.
var ErrNoChrome = errors.New("no Chrome/Chromium binary found")

// Config holds browser settings.
type Config struct {
	UserAgent string
	// Timeout bounds navigation and each evaluation on an open page.
	Timeout time.Duration
	// ExecPath overrides Chrome discovery.
	ExecPath string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: version.UserAgent(),
		Timeout:   30 * time.Second,
	}
}

// Browser owns a headless Chrome allocator.
type Browser struct {
	config    Config
	allocCtx  context.Context
	cancelCtx context.CancelFunc
}

// New creates a browser allocator. Chrome is started lazily by the first Open.
func New(cfg Config) (*Browser, error) {
	def := DefaultConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.ExecPath == "" {
		cfg.ExecPath = FindChromePath()
	}
	if cfg.ExecPath == "" {
		return nil, ErrNoChrome
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(cfg.ExecPath),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("allow-file-access-from-files", true),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	logger.Debug("browser allocator created", "exec_path", cfg.ExecPath, "timeout", cfg.Timeout)

	return &Browser{config: cfg, allocCtx: allocCtx, cancelCtx: cancel}, nil
}

// Open navigates a new tab to target and waits for the body to render.
// The page stays open until Close.
func (b *Browser) Open(ctx context.Context, target string) (*Page, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx)
	stop := context.AfterFunc(ctx, cancelTab)

	navCtx, cancelNav := context.WithTimeout(tabCtx, b.config.Timeout)
	defer cancelNav()

	logger.Debug("browser navigating", "url", target)
	if err := chromedp.Run(navCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
	); err != nil {
		stop()
		cancelTab()
		return nil, fmt.Errorf("opening %s: %w", target, err)
	}

	return &Page{
		ctx:     tabCtx,
		cancel:  func() { stop(); cancelTab() },
		timeout: b.config.Timeout,
		url:     target,
	}, nil
}

// Close shuts down the browser.
func (b *Browser) Close() error {
	if b.cancelCtx != nil {
		b.cancelCtx()
	}
	return nil
}

var _ livedoc.Document = (*Page)(nil)

// Page is a rendered tab.
type Page struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	url     string
}

// URL returns the address the page was opened at.
func (p *Page) URL() string {
	return p.url
}

// Match runs document.querySelector in the page. A selector the browser
// rejects throws in the page and is reported as livedoc.ErrInvalidSelector;
// timeouts and tab failures are returned as they are.
func (p *Page) Match(selector string) (bool, error) {
	var found bool
	err := p.eval("!!document.querySelector("+quote(selector)+")", &found)
	if err == nil {
		return found, nil
	}
	var exc *runtime.ExceptionDetails
	if errors.As(err, &exc) {
		return false, fmt.Errorf("%w %q: %w", livedoc.ErrInvalidSelector, selector, err)
	}
	return false, fmt.Errorf("querying selector %q: %w", selector, err)
}

const linksScript = `Array.from(document.querySelectorAll('link')).map(l => ({
	href: l.getAttribute('href') === null ? '' : l.href,
	rel: l.getAttribute('rel') || '',
	media: l.getAttribute('media') || ''
}))`

// Links returns the page's <link> elements with absolute hrefs.
func (p *Page) Links() ([]livedoc.Link, error) {
	var links []livedoc.Link
	if err := p.eval(linksScript, &links); err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	return links, nil
}

// Styles returns the text of the page's <style> elements.
func (p *Page) Styles() ([]string, error) {
	var styles []string
	if err := p.eval(`Array.from(document.querySelectorAll('style')).map(s => s.textContent)`, &styles); err != nil {
		return nil, fmt.Errorf("listing styles: %w", err)
	}
	return styles, nil
}

// RootHTML returns the outer HTML of the element with the given id.
func (p *Page) RootHTML(id string) (string, error) {
	var out string
	script := "(() => { const el = document.getElementById(" + quote(id) + "); return el ? el.outerHTML : ''; })()"
	if err := p.eval(script, &out); err != nil {
		return "", fmt.Errorf("reading root #%s: %w", id, err)
	}
	if out == "" {
		return "", fmt.Errorf("%w: #%s", livedoc.ErrRootNotFound, id)
	}
	return out, nil
}

// Close closes the tab.
func (p *Page) Close() error {
	p.cancel()
	return nil
}

func (p *Page) eval(script string, res any) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Evaluate(script, res))
}

// quote renders s as a JavaScript string literal.
func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

package probe

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Default settings for the browser prober.
const (
	DefaultProbeTimeout   = 5 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// probeScript runs inside the page. It resolves to true only when the
// fetch completed with an ok status before the deadline; every rejection
// and the deadline itself resolve to false.
const probeScript = `async ({ url, timeoutMs }) => {
	const attempt = fetch(url, { cache: 'no-store' })
		.then((res) => res.ok)
		.catch(() => false);
	const deadline = new Promise((resolve) => setTimeout(() => resolve(false), timeoutMs));
	return Promise.race([attempt, deadline]);
}`

// BrowserOptions configures a BrowserProber.
type BrowserOptions struct {
	// Headless controls whether the browser runs without a visible window.
	Headless bool

	// Timeout bounds each individual probe. Zero means DefaultProbeTimeout.
	Timeout time.Duration

	// Origin is an optional page to navigate to before probing. Useful
	// when resources are only served to pages the extension runs on.
	Origin string
}

// BrowserProber probes extension resources from inside a live Chromium
// page using in-page fetch calls. It owns the full Playwright stack for
// its lifetime: instance, browser, context, and a single page.
type BrowserProber struct {
	mu         sync.Mutex
	opts       BrowserOptions
	playwright *playwright.Playwright
	browser    playwright.Browser
	browserCtx playwright.BrowserContext
	page       playwright.Page
	started    bool
}

// NewBrowserProber creates a browser prober. Call Start before probing.
func NewBrowserProber(opts BrowserOptions) *BrowserProber {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultProbeTimeout
	}
	return &BrowserProber{opts: opts}
}

// originGotoOptions returns the navigation options for the optional
// origin visit before probing.
func originGotoOptions() playwright.PageGotoOptions {
	return playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateDomcontentloaded}
}

// Start installs and launches Playwright, then opens the browser context
// and page probes will run in.
func (p *BrowserProber) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}

	// Install and run Playwright with verbose=false and discard output to
	// avoid interfering with the TUI
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &p.opts.Headless,
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		browser.Close()
		pw.Stop()
		return fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(float64(p.opts.Timeout.Milliseconds()))

	if p.opts.Origin != "" {
		if _, err := page.Goto(p.opts.Origin, originGotoOptions()); err != nil {
			page.Close()
			browserCtx.Close()
			browser.Close()
			pw.Stop()
			return fmt.Errorf("failed to open origin page: %w", err)
		}
	}

	p.playwright = pw
	p.browser = browser
	p.browserCtx = browserCtx
	p.page = page
	p.started = true
	return nil
}

// Available reports whether a page is open to probe from.
func (p *BrowserProber) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Probe fetches the resource URL from inside the page. The timeout is
// enforced in-page, so a slow fetch resolves to false rather than hanging
// the probe.
func (p *BrowserProber) Probe(ctx context.Context, resourceURL string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	p.mu.Lock()
	page := p.page
	started := p.started
	p.mu.Unlock()

	if !started {
		return false, fmt.Errorf("browser prober not started")
	}

	result, err := page.Evaluate(probeScript, map[string]interface{}{
		"url":       resourceURL,
		"timeoutMs": p.opts.Timeout.Milliseconds(),
	})
	if err != nil {
		return false, fmt.Errorf("probe evaluation failed: %w", err)
	}

	ok, _ := result.(bool)
	return ok, nil
}

// Close releases the page, context, and browser, then stops Playwright.
// Safe to call on a prober that never started.
func (p *BrowserProber) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return nil
	}
	p.started = false

	_ = p.page.Close()       // Ignore errors, continue cleanup
	_ = p.browserCtx.Close() // Ignore errors, continue cleanup
	_ = p.browser.Close()    // Ignore errors, continue cleanup

	if err := p.playwright.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

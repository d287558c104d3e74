// internal/browser/fetcher.go

// Package browser renders JavaScript-only dealer inventory pages
// through headless Chrome. It satisfies the scraper's Fetcher
// interface so the pipeline can swap it in per source without caring
// how the page was produced.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Config holds the headless Chrome settings.
type Config struct {
	Headless      bool
	Timeout       time.Duration // per-page budget
	UserAgent     string
	WaitDelay     time.Duration // settle time after body is ready
	DisableImages bool
}

// DefaultConfig returns the settings used against production dealer
// sites: headless, images off, two seconds of settle time for the
// inventory widgets to hydrate.
func DefaultConfig() Config {
	return Config{
		Headless:      true,
		Timeout:       60 * time.Second,
		WaitDelay:     2 * time.Second,
		DisableImages: true,
	}
}

// Fetcher drives one shared Chrome instance. Fetch is safe for the
// pipeline's sequential use; it is not safe for concurrent callers.
type Fetcher struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
	cfg         Config
}

// New starts Chrome and returns a ready fetcher. Callers own Close.
func New(cfg Config) (*Fetcher, error) {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.DisableImages {
		opts = append(opts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Start the browser process now so startup failures surface here
	// instead of on the first page.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("starting headless browser: %w", err)
	}

	return &Fetcher{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		browserCtx:  browserCtx,
		cancel:      cancel,
		cfg:         cfg,
	}, nil
}

// Fetch renders pageURL and returns the post-JavaScript HTML.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	var runCtx context.Context
	var cancel context.CancelFunc
	if f.cfg.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(f.browserCtx, f.cfg.Timeout)
	} else {
		runCtx, cancel = context.WithCancel(f.browserCtx)
	}
	defer cancel()

	// Honor caller cancellation alongside the page budget.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	tasks := []chromedp.Action{
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
	}
	if f.cfg.WaitDelay > 0 {
		tasks = append(tasks, chromedp.Sleep(f.cfg.WaitDelay))
	}
	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(runCtx, tasks...); err != nil {
		return "", fmt.Errorf("rendering %s: %w", pageURL, err)
	}
	return html, nil
}

// Close shuts the browser down.
func (f *Fetcher) Close() {
	f.cancel()
	f.allocCancel()
}

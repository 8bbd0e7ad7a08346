package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/harvestkit/townpage/config"
	"github.com/harvestkit/townpage/extract"
)

// settleDelay is the fixed pause after the results marker becomes
// visible; the feed keeps mutating the list for a moment after the
// visibility signal fires.
const settleDelay = 2 * time.Second

// Rendered drives one exclusive headless browser session for the run's
// lifetime. Navigation waits for the results marker up to the session's
// wait budget, then reads the rendered markup.
type Rendered struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	waitTimeout   time.Duration

	closeOnce sync.Once
}

// NewRendered launches the browser session for the selected engine profile.
func NewRendered(cfg *config.Config) (*Rendered, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.UserAgent(cfg.UserAgent))

	switch cfg.Engine {
	case config.EngineChrome:
		// default exec path
	case config.EngineChromium:
		opts = append(opts, chromedp.ExecPath("chromium"))
	default:
		return nil, &config.SelectionError{Kind: "engine", Value: string(cfg.Engine)}
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser process now so a broken engine selection fails
	// before any area is processed.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, ErrTransport{Err: fmt.Errorf("launch %s: %w", cfg.Engine, err)}
	}

	return &Rendered{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		waitTimeout:   cfg.WaitTimeout,
	}, nil
}

// Fetch navigates to the page and returns its rendered markup once the
// results marker is visible. A marker that never appears within the wait
// budget surfaces as ErrTimeout.
func (r *Rendered) Fetch(ctx context.Context, locator string, offset int) ([]byte, error) {
	target := searchTarget(locator, offset)

	waitCtx, cancel := context.WithTimeout(r.browserCtx, r.waitTimeout)
	defer cancel()

	err := chromedp.Run(waitCtx,
		chromedp.Navigate(target),
		chromedp.WaitVisible(extract.ResultsMarker, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout{Err: fmt.Errorf("results marker not visible after %s: %w", r.waitTimeout, err)}
		}
		return nil, ErrTransport{Err: err}
	}

	// Rendering lags behind the visibility signal.
	var html string
	err = chromedp.Run(r.browserCtx,
		chromedp.Sleep(settleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, ErrTransport{Err: err}
	}
	return []byte(html), nil
}

// Close tears down the browser session. Safe to call more than once;
// only the first call does the work.
func (r *Rendered) Close() error {
	r.closeOnce.Do(func() {
		r.browserCancel()
		r.allocCancel()
	})
	return nil
}

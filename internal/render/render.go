// Package render turns script-driven web pages into plain text by
// loading them in a headless Chrome browser. Status pages that build
// their content client-side carry nothing useful in the raw HTML, so
// they have to be rendered before their text can be inspected.
package render

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Chrome renders pages in a fresh headless browser per request.
type Chrome struct {
	userAgent string
}

// NewChrome creates a headless Chrome renderer. Each Render call
// launches its own browser so one stuck page cannot poison the next.
func NewChrome(userAgent string) *Chrome {
	return &Chrome{userAgent: userAgent}
}

// Render navigates to url, waits for the page's network activity to go
// idle and returns the visible text of the document body. The context
// bounds the whole operation including browser startup.
func (c *Chrome) Render(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(c.userAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var text string
	err := chromedp.Run(browserCtx,
		navigateWaitIdle(url),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}
	return text, nil
}

// navigateWaitIdle navigates to a URL and blocks until the navigated
// document fires its networkIdle lifecycle event. Events are matched by
// the loader ID returned by Navigate: the tab's main frame keeps its
// frame ID across navigations, so the initial about:blank document
// fires networkIdle under the same frame ID and only the loader ID
// tells the two documents apart.
func navigateWaitIdle(url string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		w := newLifecycleWaiter()

		chromedp.ListenTarget(ctx, func(ev interface{}) {
			if lc, ok := ev.(*page.EventLifecycleEvent); ok && lc.Name == "networkIdle" {
				w.observe(lc.LoaderID)
			}
		})

		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return err
		}

		_, loaderID, errorText, err := page.Navigate(url).Do(ctx)
		if err != nil {
			return err
		}
		if errorText != "" {
			return fmt.Errorf("navigation failed: %s", errorText)
		}
		w.expect(loaderID)

		select {
		case <-w.idle:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// lifecycleWaiter waits for one document's networkIdle event. Chrome
// can deliver the event before Navigate returns the loader ID to wait
// for, so events observed before expect is called are remembered
// rather than dropped.
type lifecycleWaiter struct {
	idle chan struct{}

	mu     sync.Mutex
	target cdp.LoaderID
	fired  map[cdp.LoaderID]bool
	done   bool
}

func newLifecycleWaiter() *lifecycleWaiter {
	return &lifecycleWaiter{
		idle:  make(chan struct{}),
		fired: make(map[cdp.LoaderID]bool),
	}
}

// observe records a networkIdle event for one document and releases
// the wait when it belongs to the expected one.
func (w *lifecycleWaiter) observe(id cdp.LoaderID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return
	}
	// Navigate has not returned yet; remember the document.
	if w.target == "" {
		w.fired[id] = true
		return
	}
	if id == w.target {
		w.done = true
		close(w.idle)
	}
}

// expect names the document whose networkIdle releases the wait,
// releasing immediately when that event has already been observed.
func (w *lifecycleWaiter) expect(id cdp.LoaderID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return
	}
	w.target = id
	if w.fired[id] {
		w.done = true
		close(w.idle)
	}
}

// Disabled refuses every render request. It stands in for Chrome when
// rendering is switched off so rendered checks fail with a clear
// reason instead of waiting on a browser that will never start.
type Disabled struct{}

// Render always returns an error.
func (Disabled) Render(ctx context.Context, url string) (string, error) {
	return "", errors.New("rendering disabled")
}

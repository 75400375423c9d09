// Package browser escalates challenge pages to a headless Chrome session.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/cre-scout/loopnet-mcp/internal/challenge"
)

// Config controls the behavior of the escalation fetcher.
type Config struct {
	Headless      bool
	UserAgent     string
	NavTimeout    time.Duration
	ChallengeWait time.Duration
	PollInterval  time.Duration
	MinContentLen int
}

// EscalationError reports that a browser-based fetch could not produce real
// content: the challenge persisted past the wait budget, or no browser
// runtime could be started.
type EscalationError struct {
	URL    string
	Reason string
	Err    error
}

func (e *EscalationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("browser escalation failed for %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("browser escalation failed for %s: %s", e.URL, e.Reason)
}

func (e *EscalationError) Unwrap() error {
	return e.Err
}

// Fetcher drives a lazily-started headless Chrome session. The session is
// created on first use and shared by all subsequent escalations until Close.
type Fetcher struct {
	cfg    Config
	logger *zap.Logger

	mu            sync.RWMutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// New builds a Fetcher. The browser process is not started until the first
// Fetch call.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 30 * time.Second
	}
	if cfg.ChallengeWait <= 0 {
		cfg.ChallengeWait = 5 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.MinContentLen <= 0 {
		cfg.MinContentLen = 1000
	}
	return &Fetcher{cfg: cfg, logger: logger}
}

// ensureSession starts the shared browser session exactly once, even under
// concurrent first use.
func (f *Fetcher) ensureSession() context.Context {
	f.mu.RLock()
	ctx := f.browserCtx
	f.mu.RUnlock()
	if ctx != nil {
		return ctx
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browserCtx != nil {
		return f.browserCtx
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	if f.cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	f.allocCancel = allocCancel
	f.browserCtx = browserCtx
	f.browserCancel = browserCancel
	f.logger.Info("browser session starting", zap.Bool("headless", f.cfg.Headless))
	return f.browserCtx
}

// Fetch loads url in a fresh tab and waits for the challenge to resolve.
// The tab is closed on every exit path; the browser session stays up for
// reuse.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	session := f.ensureSession()

	tabCtx, closeTab := chromedp.NewContext(session)
	defer closeTab()

	budget := f.cfg.NavTimeout + f.cfg.ChallengeWait + 5*time.Second
	tabCtx, cancel := context.WithTimeout(tabCtx, budget)
	defer cancel()

	// Propagate caller cancellation into the tab.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-tabCtx.Done():
		}
	}()

	actions := []chromedp.Action{chromedp.Navigate(url)}
	if f.cfg.UserAgent != "" {
		actions = append([]chromedp.Action{
			emulation.SetUserAgentOverride(f.cfg.UserAgent),
		}, actions...)
	}
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return "", &EscalationError{URL: url, Reason: "browser navigation failed", Err: err}
	}

	html, err := awaitResolution(tabCtx, f.cfg.ChallengeWait, f.cfg.PollInterval, f.cfg.MinContentLen, func(pollCtx context.Context) (string, error) {
		var content string
		if err := chromedp.Run(pollCtx, chromedp.OuterHTML("html", &content, chromedp.ByQuery)); err != nil {
			return "", fmt.Errorf("read page content: %w", err)
		}
		return content, nil
	})
	if err != nil {
		return "", &EscalationError{URL: url, Reason: "challenge did not resolve", Err: err}
	}
	if challenge.IsChallenge(html) {
		return "", &EscalationError{URL: url, Reason: "challenge page persisted after browser fetch"}
	}

	f.logger.Debug("browser escalation resolved", zap.String("url", url), zap.Int("bytes", len(html)))
	return html, nil
}

// contentFunc captures the current document markup.
type contentFunc func(ctx context.Context) (string, error)

// awaitResolution polls until the page stops classifying as a challenge and
// clears the size floor, or the wait budget expires. On budget expiry the
// content is captured one final time if no poll ever ran.
func awaitResolution(ctx context.Context, wait, interval time.Duration, minLen int, getContent contentFunc) (string, error) {
	deadline := time.Now().Add(wait)
	var html string

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}

		content, err := getContent(ctx)
		if err != nil {
			return "", err
		}
		html = content
		if !challenge.IsChallenge(html) && len(html) > minLen {
			return html, nil
		}
	}

	if html == "" {
		content, err := getContent(ctx)
		if err != nil {
			return "", err
		}
		html = content
	}
	return html, nil
}

// Close tears down the browser session. Idempotent; safe when the session
// was never started.
func (f *Fetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browserCancel != nil {
		f.browserCancel()
		f.browserCancel = nil
	}
	if f.allocCancel != nil {
		f.allocCancel()
		f.allocCancel = nil
	}
	f.browserCtx = nil
}

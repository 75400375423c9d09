// Package fetch orchestrates resilient page retrieval: cache, rate limit,
// retries with backoff, challenge detection, and browser escalation behind a
// single Fetch contract.
package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cre-scout/loopnet-mcp/internal/browser"
	"github.com/cre-scout/loopnet-mcp/internal/cache"
	"github.com/cre-scout/loopnet-mcp/internal/challenge"
	"github.com/cre-scout/loopnet-mcp/internal/metrics"
	"github.com/cre-scout/loopnet-mcp/internal/ratelimit"
)

// Escalator resolves a challenge page through a browser session.
type Escalator interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close()
}

// ArchiveEntry describes one successful fetch for optional persistence.
type ArchiveEntry struct {
	URL         string
	Content     string
	StatusCode  int
	UsedBrowser bool
	FetchedAt   time.Time
	Duration    time.Duration
}

// Archiver receives successful fetch results. Failures are logged and
// swallowed; archiving never affects the fetch outcome.
type Archiver interface {
	Archive(ctx context.Context, entry ArchiveEntry) error
}

// Config is the immutable snapshot the client reads at construction.
type Config struct {
	BaseURL           string
	MaxConcurrent     int
	MaxRetries        int
	RetryForbidden    bool
	BackoffBase       time.Duration
	EscalationEnabled bool
	WarmupSettle      time.Duration
}

// Client is the fetch orchestrator. All callers of one Client share its
// cache, rate limiter, concurrency pool, and browser session.
type Client struct {
	cfg       Config
	cache     *cache.Cache
	limiter   *ratelimit.Limiter
	slots     chan struct{}
	transport Transport
	escalator Escalator
	archiver  Archiver
	logger    *zap.Logger

	warmupOnce sync.Once
	closeOnce  sync.Once

	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Client. The escalator and archiver may be nil; a nil
// escalator behaves like escalation disabled.
func New(
	cfg Config,
	transport Transport,
	escalator Escalator,
	pageCache *cache.Cache,
	limiter *ratelimit.Limiter,
	logger *zap.Logger,
) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	if cfg.WarmupSettle <= 0 {
		cfg.WarmupSettle = time.Second
	}
	if pageCache == nil {
		pageCache = cache.New(cache.Config{})
	}
	if limiter == nil {
		limiter = ratelimit.New(0)
	}
	return &Client{
		cfg:       cfg,
		cache:     pageCache,
		limiter:   limiter,
		slots:     make(chan struct{}, cfg.MaxConcurrent),
		transport: transport,
		escalator: escalator,
		logger:    logger,
		sleep:     sleepContext,
	}
}

// SetArchiver installs an optional fetch-history sink.
func (c *Client) SetArchiver(a Archiver) {
	c.archiver = a
}

// Fetch returns the page content for url, from cache when possible. It
// fails with *BlockedError, *RateLimitedError, *TransportError, or
// *browser.EscalationError.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	if content, ok := c.cache.Get(url); ok {
		metrics.ObserveCacheLookup(true)
		return content, nil
	}
	metrics.ObserveCacheLookup(false)

	c.warmup(ctx)

	select {
	case c.slots <- struct{}{}:
	case <-ctx.Done():
		return "", fmt.Errorf("fetch slot wait canceled: %w", ctx.Err())
	}
	defer func() { <-c.slots }()

	// A concurrent caller may have populated the cache while this one
	// waited for the slot.
	if content, ok := c.cache.Get(url); ok {
		metrics.ObserveCacheLookup(true)
		return content, nil
	}

	return c.fetchWithRetries(ctx, url)
}

// warmup hits the site root once per client lifetime to establish session
// cookies before the first substantive request. Best effort: failures are
// swallowed.
func (c *Client) warmup(ctx context.Context) {
	c.warmupOnce.Do(func() {
		if c.cfg.BaseURL == "" {
			return
		}
		if _, err := c.transport.Get(ctx, c.cfg.BaseURL); err != nil {
			c.logger.Debug("warmup request failed", zap.Error(err))
		}
		_ = c.sleep(ctx, c.cfg.WarmupSettle)
	})
}

func (c *Client) fetchWithRetries(ctx context.Context, url string) (string, error) {
	log := c.logger.With(
		zap.String("url", url),
		zap.String("fetch_id", uuid.NewString()),
	)
	start := time.Now()
	var lastErr error

	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.ObserveRetry()
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		resp, err := c.transport.Get(ctx, url)
		if err != nil {
			lastErr = &TransportError{URL: url, Err: err}
			log.Warn("transport fault", zap.Int("attempt", attempt+1), zap.Error(err))
		} else {
			content, terminal, retryErr := c.classify(ctx, log, url, resp, start)
			if terminal != nil {
				return content, terminal.result()
			}
			lastErr = retryErr
			log.Warn("retryable status",
				zap.Int("attempt", attempt+1),
				zap.Int("status", resp.StatusCode),
			)
		}

		if attempt < c.cfg.MaxRetries-1 {
			backoff := c.cfg.BackoffBase << attempt
			if err := c.sleep(ctx, backoff); err != nil {
				return "", err
			}
		}
	}

	c.observeFailure(lastErr, time.Since(start))
	return "", lastErr
}

// outcome marks a terminal result of the retry loop.
type outcome struct {
	err error
}

func (o *outcome) result() error {
	return o.err
}

// classify maps one HTTP response onto the retry state machine. A non-nil
// outcome ends the loop; otherwise retryErr records the attempt's failure.
func (c *Client) classify(
	ctx context.Context,
	log *zap.Logger,
	url string,
	resp Response,
	start time.Time,
) (string, *outcome, error) {
	switch {
	case resp.StatusCode == 200:
		if challenge.IsChallenge(resp.Body) {
			log.Info("challenge page detected, escalating to browser")
			content, err := c.escalate(ctx, url)
			if err != nil {
				metrics.ObserveFetch("escalation_error", time.Since(start), true)
				return "", &outcome{err: err}, nil
			}
			c.cache.Set(url, content)
			c.notifyArchiver(url, content, resp.StatusCode, true, time.Since(start))
			metrics.ObserveFetch("success", time.Since(start), true)
			return content, &outcome{}, nil
		}
		c.cache.Set(url, resp.Body)
		c.notifyArchiver(url, resp.Body, resp.StatusCode, false, time.Since(start))
		metrics.ObserveFetch("success", time.Since(start), false)
		log.Debug("fetch succeeded", zap.Int("bytes", len(resp.Body)))
		return resp.Body, &outcome{}, nil

	case resp.StatusCode == 403:
		blockErr := &BlockedError{URL: url}
		if !c.cfg.RetryForbidden {
			metrics.ObserveFetch("blocked", time.Since(start), false)
			return "", &outcome{err: blockErr}, nil
		}
		// A 403 here is often a stale-cookie condition rather than a
		// durable block, so it stays retryable by default.
		return "", nil, blockErr

	case resp.StatusCode == 429:
		return "", nil, &RateLimitedError{URL: url}

	case resp.StatusCode >= 500:
		return "", nil, &TransportError{URL: url, Status: resp.StatusCode}

	default:
		err := &TransportError{URL: url, Status: resp.StatusCode}
		metrics.ObserveFetch("transport_error", time.Since(start), false)
		return "", &outcome{err: err}, nil
	}
}

// escalate hands a challenged URL to the browser path. Escalation failures
// are fatal for this fetch; the orchestrator never retries them.
func (c *Client) escalate(ctx context.Context, url string) (string, error) {
	if !c.cfg.EscalationEnabled || c.escalator == nil {
		return "", &browser.EscalationError{URL: url, Reason: "browser escalation is disabled"}
	}
	content, err := c.escalator.Fetch(ctx, url)
	if err != nil {
		metrics.ObserveEscalation("failure")
		return "", err
	}
	metrics.ObserveEscalation("success")
	return content, nil
}

func (c *Client) notifyArchiver(url, content string, status int, usedBrowser bool, duration time.Duration) {
	if c.archiver == nil {
		return
	}
	entry := ArchiveEntry{
		URL:         url,
		Content:     content,
		StatusCode:  status,
		UsedBrowser: usedBrowser,
		FetchedAt:   time.Now(),
		Duration:    duration,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.archiver.Archive(ctx, entry); err != nil {
			c.logger.Warn("archive write failed", zap.String("url", url), zap.Error(err))
		}
	}()
}

func (c *Client) observeFailure(err error, duration time.Duration) {
	switch err.(type) {
	case *BlockedError:
		metrics.ObserveFetch("blocked", duration, false)
	case *RateLimitedError:
		metrics.ObserveFetch("rate_limited", duration, false)
	default:
		metrics.ObserveFetch("transport_error", duration, false)
	}
}

// Close releases the browser session, if any. Safe to call multiple times.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if c.escalator != nil {
			c.escalator.Close()
		}
	})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package fetch

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"github.com/gocolly/colly/v2"
)

// Response is the raw result of one primary-transport attempt.
type Response struct {
	StatusCode int
	Body       string
}

// Transport issues a single GET against the origin. Implementations must
// return a Response whenever an HTTP status was received, reserving the
// error return for transport-level faults.
type Transport interface {
	Get(ctx context.Context, url string) (Response, error)
}

// headerProfiles maps an impersonation profile identifier to the header set
// a real browser of that version sends on navigation. The edge protection
// fingerprints these, so the full set matters, not just the User-Agent.
var headerProfiles = map[string]map[string]string{
	"chrome136": {
		"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36",
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
		"Accept-Language":           "en-US,en;q=0.9",
		"Sec-Ch-Ua":                 `"Chromium";v="136", "Google Chrome";v="136", "Not.A/Brand";v="99"`,
		"Sec-Ch-Ua-Mobile":          "?0",
		"Sec-Ch-Ua-Platform":        `"Windows"`,
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
		"Upgrade-Insecure-Requests": "1",
	},
}

// TransportConfig controls the Colly-backed primary transport.
type TransportConfig struct {
	Impersonate string
	Timeout     time.Duration
}

// CollyTransport implements Transport using a Colly collector with a shared
// cookie jar, so warmup cookies carry over to subsequent requests.
type CollyTransport struct {
	base    *colly.Collector
	headers map[string]string
}

// NewCollyTransport builds the primary transport. Unknown impersonation
// profiles fall back to the newest known Chrome profile.
func NewCollyTransport(cfg TransportConfig) (*CollyTransport, error) {
	headers, ok := headerProfiles[cfg.Impersonate]
	if !ok {
		headers = headerProfiles["chrome136"]
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := colly.NewCollector(
		colly.Async(false),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.UserAgent(headers["User-Agent"]),
	)
	c.SetRequestTimeout(timeout)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	c.SetCookieJar(jar)

	return &CollyTransport{base: c, headers: headers}, nil
}

// Get executes a single HTTP GET. Non-2xx statuses are returned as a
// Response, not an error; only transport-level faults produce an error.
func (t *CollyTransport) Get(ctx context.Context, url string) (Response, error) {
	// Clone shares the backend (and cookie jar) but carries no callbacks,
	// so per-call hooks don't accumulate on the base collector.
	collector := t.base.Clone()

	var (
		result   Response
		fetchErr error
	)

	collector.OnRequest(func(r *colly.Request) {
		for key, value := range t.headers {
			r.Headers.Set(key, value)
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		result = Response{
			StatusCode: r.StatusCode,
			Body:       string(r.Body),
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			result = Response{
				StatusCode: r.StatusCode,
				Body:       string(r.Body),
			}
			return
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return Response{}, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if result.StatusCode > 0 {
			return result, nil
		}
		if fetchErr != nil {
			return Response{}, fetchErr
		}
		if err != nil {
			return Response{}, err
		}
		return Response{}, fmt.Errorf("no response received for %s", url)
	}
}

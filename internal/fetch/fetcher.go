package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/refracthq/refract/internal/cache"
	"github.com/refracthq/refract/internal/model"
	"github.com/refracthq/refract/internal/util"
)

const fetchMaxRetries = 3

// fetchSleepFunc is the sleep function used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

// ErrRobotsDisallowed reports that the site's robots.txt forbids the fetch
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// Fetcher retrieves source text from URLs. HTML responses are reduced
// to their visible text; anything else is taken verbatim. Fetched text
// is cached in memory so repeated analyses of one source hit the
// network once.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	cache      cache.Cache
}

// NewFetcher creates a new fetcher with the given configuration
func NewFetcher(cfg *model.Config) *Fetcher {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.Fetch.HTTPProxy, cfg.Fetch.HTTPSProxy, cfg.Fetch.NoProxy),
	}
	if cfg.Fetch.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Fetch.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.Fetch.UserAgent,
		maxBytes:  cfg.Fetch.MaxBodyBytes,
	}
	if cfg.Fetch.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.Fetch.UserAgent, cfg.Fetch.Timeout)
	}
	if cfg.Cache.Enabled {
		f.cache = cache.NewMemoryCache(cfg.Cache.TTL)
	}
	return f
}

// Fetch retrieves the text behind rawURL. Transient failures (429,
// 5xx, network timeouts) are retried with exponential backoff.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.cache != nil {
		if text, found := f.cache.Get(cache.Key(rawURL)); found {
			return text, nil
		}
	}

	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return "", fmt.Errorf("check robots.txt: %w", err)
		}
		if !allowed {
			return "", fmt.Errorf("%w: %s", ErrRobotsDisallowed, rawURL)
		}
		if crawlDelay > 0 {
			fetchSleepFunc(crawlDelay)
		}
	}

	text, err := f.fetchWithRetry(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if f.cache != nil {
		f.cache.Set(cache.Key(rawURL), text)
	}
	return text, nil
}

// fetchWithRetry retries transient failures with exponential backoff
func (f *Fetcher) fetchWithRetry(ctx context.Context, rawURL string) (string, error) {
	var text string
	var err error
	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		text, err = f.fetchOnce(ctx, rawURL)
		if err == nil || !isRetryableFetchError(err) {
			return text, err
		}
		if attempt < fetchMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			fetchSleepFunc(backoff)
		}
	}
	return text, err
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &statusError{code: resp.StatusCode, status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if isHTML(contentType, body) {
		text, err := util.VisibleText(string(body))
		if err != nil {
			return "", fmt.Errorf("extract text: %w", err)
		}
		return text, nil
	}
	return string(body), nil
}

// statusError preserves the status code for retry decisions
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.status)
}

// isHTML sniffs the content type; some servers omit or mislabel it
func isHTML(contentType string, body []byte) bool {
	if strings.Contains(contentType, "text/html") || strings.Contains(contentType, "application/xhtml") {
		return true
	}
	if contentType != "" {
		return false
	}
	head := strings.ToLower(string(body[:min(len(body), 512)]))
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}

// isRetryableFetchError returns true for failures that indicate a
// transient condition
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == 429 || (se.code >= 500 && se.code < 600)
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

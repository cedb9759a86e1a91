package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	errs "gametracker/pkg/errors"
	"gametracker/pkg/logger"
	"gametracker/pkg/ratelimit"
	"gametracker/pkg/retry"
)

// DefaultTimeout bounds every single HTTP request
const DefaultTimeout = 30 * time.Second

// maxBodySize guards against unbounded pages
const maxBodySize = 10 << 20

// Options configures a Fetcher
type Options struct {
	// Name labels the source in logs and retry errors
	Name string
	// UserAgent is sent with every request
	UserAgent string
	// Headers are added to every request
	Headers map[string]string
	// Timeout bounds each request; DefaultTimeout when zero
	Timeout time.Duration
	// RateLimitDelay is slept after every successful network fetch
	RateLimitDelay time.Duration
	// MaxRetries and BaseDelay tune the retry executor
	MaxRetries int
	BaseDelay  time.Duration
	// Limiter optionally caps the request rate before each attempt
	Limiter ratelimit.Limiter
	// CacheTTL enables an in-memory response cache when positive
	CacheTTL time.Duration
	// Transport overrides the HTTP transport, mainly for tests
	Transport http.RoundTripper
	Logger    logger.Logger
}

// Fetcher fetches pages and API responses with retries and a fixed
// inter-request delay. The underlying HTTP session is created on the
// first Fetch and released by Close.
type Fetcher struct {
	opts     Options
	logger   logger.Logger
	cooldown *ratelimit.FixedDelay
	policy   retry.Policy
	cache    *cache.Cache

	mu     sync.Mutex
	client *http.Client
	closed bool
}

// New creates a Fetcher. No connection is opened until the first Fetch.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.Unlimited{}
	}

	f := &Fetcher{
		opts:     opts,
		logger:   logger.OrNop(opts.Logger).WithField("source", opts.Name),
		cooldown: ratelimit.NewFixedDelay(opts.RateLimitDelay),
	}
	f.policy = retry.Policy{
		MaxRetries: opts.MaxRetries,
		BaseDelay:  opts.BaseDelay,
		Name:       opts.Name + " fetch",
		Logger:     f.logger,
	}
	if opts.CacheTTL > 0 {
		// No cleanup interval: expired entries are dropped on read and no janitor goroutine runs
		f.cache = cache.New(opts.CacheTTL, 0)
	}
	return f
}

// session returns the HTTP client, creating it on first use
func (f *Fetcher) session() (*http.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, errs.New(errs.ErrorTypeUnknown, fmt.Sprintf("%s fetcher is closed", f.opts.Name))
	}
	if f.client == nil {
		transport := f.opts.Transport
		if transport == nil {
			transport = newTransport()
		}
		f.client = &http.Client{
			Timeout:   f.opts.Timeout,
			Transport: transport,
		}
		f.logger.Debug("HTTP session opened")
	}
	return f.client, nil
}

// newTransport gives each session its own connection pool
func newTransport() http.RoundTripper {
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		return t.Clone()
	}
	return &http.Transport{Proxy: http.ProxyFromEnvironment}
}

// Close releases the HTTP session. It is safe to call more than once.
func (f *Fetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	if f.client != nil {
		f.client.CloseIdleConnections()
		f.client = nil
		f.logger.Debug("HTTP session closed")
	}
	if f.cache != nil {
		f.cache.Flush()
	}
}

// Fetch issues a GET for rawURL with params, retrying transient failures.
// After a successful network fetch it sleeps the rate limit delay before
// returning. Cached responses return immediately.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	target, err := buildURL(rawURL, params)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if body, ok := f.cache.Get(target); ok {
			f.logger.DebugWithFields("cache hit", map[string]interface{}{"url": target})
			return body.([]byte), nil
		}
	}

	if _, err := f.session(); err != nil {
		return nil, err
	}

	attempt := retry.WithRetry(func(ctx context.Context) ([]byte, error) {
		return f.get(ctx, target)
	}, f.policy)
	body, err := attempt(ctx)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		f.cache.SetDefault(target, body)
	}

	if err := f.cooldown.Cooldown(ctx); err != nil {
		return nil, err
	}
	return body, nil
}

// get performs a single request attempt
func (f *Fetcher) get(ctx context.Context, target string) ([]byte, error) {
	client, err := f.session()
	if err != nil {
		return nil, err
	}
	if err := f.opts.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeUnknown, err, "failed to create request")
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	for key, value := range f.opts.Headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		f.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":      target,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return nil, errs.Wrap(errs.ErrorTypeNetwork, err, "request failed")
	}
	defer resp.Body.Close()

	logger.LogRequest(f.logger, req.Method, target, resp.StatusCode, time.Since(start))

	if statusErr := errs.FromStatus(resp.StatusCode, target); statusErr != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, statusErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, err, "failed to read response body")
	}
	return body, nil
}

func buildURL(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeConfig, err, fmt.Sprintf("invalid URL %q", rawURL))
	}
	if len(params) > 0 {
		q := u.Query()
		for key, values := range params {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

package tracker

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gametracker/pkg/config"
	"gametracker/pkg/logger"
)

// PageFetcher retrieves a page or API response. *fetch.Fetcher satisfies it.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string, params url.Values) ([]byte, error)
}

// GameInfo describes the tracked game as seen on its tracking page
type GameInfo struct {
	Name      string    `json:"name"`
	AppID     int       `json:"app_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	ScrapedAt time.Time `json:"scraped_at"`
	Error     string    `json:"error,omitempty"`
}

// FollowerCollector produces the follower series of one game
type FollowerCollector struct {
	fetcher          PageFetcher
	tracking         config.TrackingConfig
	pageURL          string
	defaultFollowers int
	history          HistoryProvider
	now              func() time.Time
	logger           logger.Logger
}

// FollowerOption customizes a FollowerCollector
type FollowerOption func(*FollowerCollector)

// WithHistory sets the provider that turns today's count into a series
func WithHistory(h HistoryProvider) FollowerOption {
	return func(c *FollowerCollector) { c.history = h }
}

// WithDefaultFollowers sets the baseline used when no count can be fetched
func WithDefaultFollowers(n int) FollowerOption {
	return func(c *FollowerCollector) { c.defaultFollowers = n }
}

// WithFollowerClock overrides the clock used to date observations
func WithFollowerClock(now func() time.Time) FollowerOption {
	return func(c *FollowerCollector) { c.now = now }
}

// WithFollowerLogger sets the collector logger
func WithFollowerLogger(l logger.Logger) FollowerOption {
	return func(c *FollowerCollector) { c.logger = l }
}

// DefaultFollowers is the baseline substituted when the page cannot be used
const DefaultFollowers = 50000

// NewFollowerCollector creates a collector reading the page at baseURL/app/<id>
func NewFollowerCollector(fetcher PageFetcher, tracking config.TrackingConfig, baseURL string, opts ...FollowerOption) *FollowerCollector {
	c := &FollowerCollector{
		fetcher:          fetcher,
		tracking:         tracking,
		pageURL:          fmt.Sprintf("%s/app/%d", strings.TrimRight(baseURL, "/"), tracking.TargetID),
		defaultFollowers: DefaultFollowers,
		history:          CurrentOnly{},
		now:              time.Now,
		logger:           logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logger.OrNop(c.logger).WithField("component", "followers")
	return c
}

// PageURL returns the tracking page address
func (c *FollowerCollector) PageURL() string {
	return c.pageURL
}

// CurrentFollowers fetches the tracking page and extracts today's count.
// found is false when the page was fetched but held no recognizable count.
// A non-nil error means the fetch itself failed after all retries.
func (c *FollowerCollector) CurrentFollowers(ctx context.Context) (count int, found bool, err error) {
	c.logger.InfoWithFields("Fetching current followers", map[string]interface{}{
		"app_id": c.tracking.TargetID,
	})

	body, err := c.fetcher.Fetch(ctx, c.pageURL, nil)
	if err != nil {
		return 0, false, fmt.Errorf("fetch follower page: %w", err)
	}

	count, found = ExtractFollowers(string(body))
	if found {
		c.logger.InfoWithFields("Found current followers", map[string]interface{}{"followers": count})
	}
	return count, found, nil
}

// Collect returns the follower series for the tracking window. Fetch
// exhaustion and unparseable pages fall back to the default baseline with
// a warning; only cancellation of ctx is returned as an error.
func (c *FollowerCollector) Collect(ctx context.Context) ([]DatedMetric, error) {
	start := time.Now()
	logger.LogComponentStart(c.logger, "follower collector", map[string]interface{}{
		"target":      c.tracking.TargetName,
		"window_days": c.tracking.WindowDays,
	})

	count, found, err := c.CurrentFollowers(ctx)
	switch {
	case err != nil && ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		c.logger.WithError(err).WarnWithFields("Follower page unavailable, using default baseline", map[string]interface{}{
			"default_followers": c.defaultFollowers,
		})
		count = c.defaultFollowers
	case !found:
		c.logger.WarnWithFields("Could not find follower count on page, using default baseline", map[string]interface{}{
			"default_followers": c.defaultFollowers,
		})
		count = c.defaultFollowers
	}

	today := Day(c.now())
	current := DatedMetric{Date: today, Value: float64(count), Source: FollowerSource}
	from := today.AddDate(0, 0, -c.tracking.WindowDays)

	series, err := c.history.Series(ctx, current, found, from)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.WithError(err).Warn("Follower history unavailable, using current count only")
		series = []DatedMetric{current}
	}

	c.logger.InfoWithFields("Follower series ready", map[string]interface{}{"points": len(series)})
	logger.LogComponentStop(c.logger, "follower collector", time.Since(start))
	return series, nil
}

// GameInfo describes the tracked game. Failures are reported in the
// Error field and never abort the run.
func (c *FollowerCollector) GameInfo(ctx context.Context) GameInfo {
	info := GameInfo{
		Name:      c.tracking.TargetName,
		AppID:     c.tracking.TargetID,
		URL:       c.pageURL,
		ScrapedAt: c.now(),
	}

	body, err := c.fetcher.Fetch(ctx, c.pageURL, nil)
	if err != nil {
		c.logger.WithError(err).Warn("Could not fetch game info")
		info.Error = err.Error()
		return info
	}

	if title, ok := ExtractTitle(string(body)); ok {
		info.Title = title
	}
	return info
}

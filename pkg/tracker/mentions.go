package tracker

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"gametracker/pkg/config"
	errs "gametracker/pkg/errors"
	"gametracker/pkg/logger"
)

// searchListing is the subset of the forum search response that is counted
type searchListing struct {
	Data *struct {
		Children []json.RawMessage `json:"children"`
	} `json:"data"`
}

// MentionsCollector counts forum posts mentioning the game, one query per day
type MentionsCollector struct {
	fetcher  PageFetcher
	tracking config.TrackingConfig
	apiURL   string
	now      func() time.Time
	progress func(done, total int)
	logger   logger.Logger
}

// MentionsOption customizes a MentionsCollector
type MentionsOption func(*MentionsCollector)

// WithMentionsClock overrides the clock that anchors the window
func WithMentionsClock(now func() time.Time) MentionsOption {
	return func(c *MentionsCollector) { c.now = now }
}

// WithProgress registers a callback invoked after each day is counted
func WithProgress(fn func(done, total int)) MentionsOption {
	return func(c *MentionsCollector) { c.progress = fn }
}

// WithMentionsLogger sets the collector logger
func WithMentionsLogger(l logger.Logger) MentionsOption {
	return func(c *MentionsCollector) { c.logger = l }
}

// NewMentionsCollector creates a collector querying the search API at apiURL
func NewMentionsCollector(fetcher PageFetcher, tracking config.TrackingConfig, apiURL string, opts ...MentionsOption) *MentionsCollector {
	c := &MentionsCollector{
		fetcher:  fetcher,
		tracking: tracking,
		apiURL:   apiURL,
		now:      time.Now,
		logger:   logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logger.OrNop(c.logger).WithField("component", "mentions")
	return c
}

// Query returns the exact-title search expression for the game
func (c *MentionsCollector) Query() string {
	return `title:"` + c.tracking.TargetName + `"`
}

// Collect returns one metric per calendar day in [now-window, now], in
// ascending order. Days are queried strictly in sequence because the time
// cursor moves forward one day per query. A day whose query fails counts
// as zero; only cancellation of ctx aborts the collection.
func (c *MentionsCollector) Collect(ctx context.Context) ([]DatedMetric, error) {
	start := time.Now()
	logger.LogComponentStart(c.logger, "mentions collector", map[string]interface{}{
		"target":      c.tracking.TargetName,
		"window_days": c.tracking.WindowDays,
	})

	cursor := c.now().AddDate(0, 0, -c.tracking.WindowDays)
	total := c.tracking.WindowDays + 1
	mentions := make([]DatedMetric, 0, total)

	for i := 0; i < total; i++ {
		day := Day(cursor)

		count, err := c.countMentions(ctx, cursor.Unix())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.WithError(err).WarnWithFields("Mentions query failed, counting zero", map[string]interface{}{
				"date": day.Format(DateLayout),
			})
			count = 0
		}

		mentions = append(mentions, DatedMetric{Date: day, Value: float64(count), Source: MentionSource})
		c.logger.DebugWithFields("Mentions counted", map[string]interface{}{
			"date":     day.Format(DateLayout),
			"mentions": count,
		})

		if c.progress != nil {
			c.progress(i+1, total)
		}
		cursor = cursor.AddDate(0, 0, 1)
	}

	logger.LogComponentStop(c.logger, "mentions collector", time.Since(start))
	return mentions, nil
}

// countMentions runs one search with the given cursor and counts the results
func (c *MentionsCollector) countMentions(ctx context.Context, after int64) (int, error) {
	params := url.Values{
		"q":           {c.Query()},
		"sort":        {"new"},
		"restrict_sr": {"on"},
		"limit":       {"100"},
		"after":       {strconv.FormatInt(after, 10)},
	}

	body, err := c.fetcher.Fetch(ctx, c.apiURL, params)
	if err != nil {
		return 0, err
	}

	var listing searchListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return 0, errs.Wrap(errs.ErrorTypeParsing, err, "failed to decode search response")
	}
	if listing.Data == nil {
		c.logger.Warn("No data found in search response")
		return 0, nil
	}
	return len(listing.Data.Children), nil
}

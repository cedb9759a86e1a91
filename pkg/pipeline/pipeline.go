package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"gametracker/pkg/align"
	"gametracker/pkg/config"
	"gametracker/pkg/fetch"
	"gametracker/pkg/history"
	"gametracker/pkg/logger"
	"gametracker/pkg/output"
	"gametracker/pkg/ratelimit"
	"gametracker/pkg/storage"
	"gametracker/pkg/tracker"
)

// Result is what one tracking run produced
type Result struct {
	Table      *align.Table
	Game       tracker.GameInfo
	CSVPath    string
	ReportPath string
	// ChartPath and TrendPath are empty unless visualization was requested
	// and the table was long enough for the page
	ChartPath string
	TrendPath string
}

// Runner orchestrates one tracking run: both collectors concurrently,
// then alignment, then the output files
type Runner struct {
	cfg      *config.Config
	now      func() time.Time
	logger   logger.Logger
	history  tracker.HistoryProvider
	progress func(done, total int)
}

// Option customizes a Runner
type Option func(*Runner)

// WithClock overrides the clock used by both collectors and the report
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithLogger sets the run logger
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithHistory replaces the follower history provider. By default the
// ledger at the configured history file is used, or today's reading alone
// when no history file is configured.
func WithHistory(h tracker.HistoryProvider) Option {
	return func(r *Runner) { r.history = h }
}

// WithProgress reports mentions progress after every queried day
func WithProgress(fn func(done, total int)) Option {
	return func(r *Runner) { r.progress = fn }
}

// New creates a Runner for cfg. cfg is expected to be validated.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		now:    time.Now,
		logger: logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logger.OrNop(r.logger)

	if r.history == nil {
		r.history = tracker.CurrentOnly{}
		if path := cfg.HistoryPath(); path != "" {
			r.history = &tracker.LedgerHistory{
				Store:  history.NewStore(path, r.logger),
				AppID:  cfg.Target.AppID,
				Name:   cfg.Target.Name,
				Logger: r.logger,
			}
		}
	}
	return r
}

// Run collects, aligns and writes the outputs. Collector failures never
// fail the run; only cancellation of ctx and output errors are returned.
// Each fetcher session is closed on every exit path.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	tracking := r.cfg.Snapshot()
	logger.LogComponentStart(r.logger, "pipeline", map[string]interface{}{
		"target":      tracking.TargetName,
		"app_id":      tracking.TargetID,
		"window_days": tracking.WindowDays,
	})

	pages := r.followerFetcher()
	defer pages.Close()
	search := r.mentionsFetcher()
	defer search.Close()

	followerCollector := tracker.NewFollowerCollector(pages, tracking, r.cfg.Sources.FollowerBaseURL,
		tracker.WithHistory(r.history),
		tracker.WithDefaultFollowers(r.cfg.Sources.DefaultFollowers),
		tracker.WithFollowerClock(r.now),
		tracker.WithFollowerLogger(r.logger),
	)
	mentionsCollector := tracker.NewMentionsCollector(search, tracking, r.cfg.Sources.MentionsURL,
		tracker.WithMentionsClock(r.now),
		tracker.WithMentionsLogger(r.logger),
		tracker.WithProgress(r.progress),
	)

	// Collectors share nothing; the group is only the join point
	var followers, mentions []tracker.DatedMetric
	var g errgroup.Group
	g.Go(func() error {
		var err error
		followers, err = followerCollector.Collect(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		mentions, err = mentionsCollector.Collect(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		r.logger.WithError(err).Warn("Collection interrupted")
		return nil, err
	}

	// Served from the fetch cache when caching is enabled
	game := followerCollector.GameInfo(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := align.Align(followers, mentions)
	r.logger.InfoWithFields("Aligned series", map[string]interface{}{
		"rows":        table.Len(),
		"correlation": table.HasCorrelation,
	})

	result, err := r.writeOutputs(table, tracking, game)
	if err != nil {
		return nil, err
	}

	logger.LogComponentStop(r.logger, "pipeline", time.Since(start))
	return result, nil
}

func (r *Runner) followerFetcher() *fetch.Fetcher {
	var ttl time.Duration
	if r.cfg.Cache.Enabled {
		ttl = r.cfg.Cache.TTL
	}
	return fetch.New(fetch.Options{
		Name:      "followers",
		UserAgent: r.cfg.Sources.UserAgent,
		Headers: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
		},
		Timeout:        r.cfg.Sources.RequestTimeout,
		RateLimitDelay: r.cfg.RateLimit.Delay,
		MaxRetries:     r.cfg.RateLimit.MaxRetries,
		BaseDelay:      r.cfg.Sources.FollowerBaseDelay,
		Limiter:        ratelimit.New(r.cfg.RateLimit.RequestsPerMinute),
		CacheTTL:       ttl,
		Logger:         r.logger,
	})
}

func (r *Runner) mentionsFetcher() *fetch.Fetcher {
	return fetch.New(fetch.Options{
		Name:           "mentions",
		UserAgent:      r.cfg.Sources.MentionsUserAgent,
		Timeout:        r.cfg.Sources.RequestTimeout,
		RateLimitDelay: r.cfg.RateLimit.Delay,
		MaxRetries:     r.cfg.RateLimit.MaxRetries,
		BaseDelay:      r.cfg.Sources.MentionsBaseDelay,
		Limiter:        ratelimit.New(r.cfg.RateLimit.RequestsPerMinute),
		Logger:         r.logger,
	})
}

// writeOutputs saves the CSV, the report and, when requested, the chart
// pages. Every file is written to a temp file and renamed, so an
// interrupted run never leaves a truncated artifact behind.
func (r *Runner) writeOutputs(table *align.Table, tracking config.TrackingConfig, game tracker.GameInfo) (*Result, error) {
	store, err := storage.NewManager(r.cfg.Output.Directory)
	if err != nil {
		return nil, err
	}

	result := &Result{Table: table, Game: game}

	result.CSVPath, err = store.Save(artifactName(r.cfg.CSVPath()), func(w io.Writer) error {
		return output.EncodeCSV(w, table)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}

	info := output.ReportInfo{Tracking: tracking, Game: game, Generated: r.now()}
	result.ReportPath, err = store.Save(artifactName(r.cfg.ReportPath()), func(w io.Writer) error {
		_, err := io.WriteString(w, output.RenderReport(table, info))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	if r.cfg.Output.Visualize {
		chartInfo := output.ChartInfo{GameName: tracking.TargetName, Generated: r.now()}

		result.ChartPath, err = r.saveChart(store, r.cfg.ChartPath(), func(w io.Writer) error {
			return output.RenderGraph(w, table, chartInfo)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to write chart: %w", err)
		}

		result.TrendPath, err = r.saveChart(store, r.cfg.TrendPath(), func(w io.Writer) error {
			return output.RenderTrend(w, table, chartInfo)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to write trend analysis: %w", err)
		}
	}

	r.logger.InfoWithFields("Outputs written", map[string]interface{}{
		"files": store.Written(),
	})
	return result, nil
}

// saveChart writes one chart page. A table the chart cannot be drawn for
// is logged and yields an empty path.
func (r *Runner) saveChart(store *storage.Manager, name string, render func(w io.Writer) error) (string, error) {
	path, err := store.Save(artifactName(name), render)
	switch {
	case errors.Is(err, output.ErrNoData), errors.Is(err, output.ErrTooFewRows):
		r.logger.WithError(err).Warn("Chart skipped")
		return "", nil
	case err != nil:
		return "", err
	}
	return path, nil
}

// artifactName sanitizes the file part of a configured output path
func artifactName(name string) string {
	dir, base := filepath.Split(name)
	return dir + output.SanitizeFilename(base)
}

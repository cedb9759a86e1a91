package tracker

import (
	"context"
	"strconv"
	"time"

	"gametracker/pkg/history"
	"gametracker/pkg/logger"
)

// HistoryProvider turns today's follower count into the follower series
// for the window starting at from. observed is false when current is a
// substituted baseline rather than a real reading.
type HistoryProvider interface {
	Series(ctx context.Context, current DatedMetric, observed bool, from time.Time) ([]DatedMetric, error)
}

// CurrentOnly reports today's count and nothing else
type CurrentOnly struct{}

// Series returns a single-point series
func (CurrentOnly) Series(_ context.Context, current DatedMetric, _ bool, _ time.Time) ([]DatedMetric, error) {
	return []DatedMetric{current}, nil
}

// LedgerHistory accumulates real observations across runs in a flat-file
// ledger and returns every recorded day inside the window
type LedgerHistory struct {
	Store  *history.Store
	AppID  int
	Name   string
	Logger logger.Logger
}

// Series records current when it was observed and returns the window's
// ledger entries. A substituted baseline is never written to the ledger.
func (h *LedgerHistory) Series(ctx context.Context, current DatedMetric, observed bool, from time.Time) ([]DatedMetric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var game *history.GameHistory
	if observed {
		g, err := h.Store.Record(h.AppID, h.Name, current.Date, int(current.Value))
		if err != nil {
			return nil, err
		}
		game = g
	} else {
		ledger, err := h.Store.Load()
		if err != nil {
			return nil, err
		}
		game = ledger.Games[strconv.Itoa(h.AppID)]
	}

	var series []DatedMetric
	hasToday := false
	if game != nil {
		for _, obs := range game.Between(from, current.Date) {
			d, err := obs.Day()
			if err != nil {
				logger.OrNop(h.Logger).WithError(err).Warn("Skipping malformed history entry")
				continue
			}
			hasToday = hasToday || d.Equal(current.Date)
			series = append(series, DatedMetric{Date: d, Value: float64(obs.Followers), Source: FollowerSource})
		}
	}
	// An earlier reading from today beats a substituted baseline
	if !hasToday {
		series = append(series, current)
	}
	return series, nil
}

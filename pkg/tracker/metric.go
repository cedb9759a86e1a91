package tracker

import "time"

// DateLayout formats calendar dates throughout the tracker
const DateLayout = "2006-01-02"

// Source identifies which collector produced a metric
type Source int

const (
	FollowerSource Source = iota
	MentionSource
)

func (s Source) String() string {
	switch s {
	case FollowerSource:
		return "followers"
	case MentionSource:
		return "mentions"
	default:
		return "unknown"
	}
}

// DatedMetric is one value observed for one calendar day
type DatedMetric struct {
	Date   time.Time
	Value  float64
	Source Source
}

// Day truncates t to its calendar date, expressed at midnight UTC so that
// dates compare and key consistently
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

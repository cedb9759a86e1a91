package align

import (
	"sort"
	"time"

	"gametracker/pkg/tracker"
)

// Thresholds for the derived columns
const (
	MinRowsForChange      = 2
	MinRowsForRolling     = 7
	MinRowsForCorrelation = 10
	RollingWindow         = 7
)

// Record is one aligned day. The pointer fields are nil until the table
// is long enough for them to be computed; FollowersChange and
// MentionsChange are also nil on the first row.
type Record struct {
	Date            time.Time
	Followers       float64
	Mentions        float64
	FollowersChange *float64
	MentionsChange  *float64
	FollowersAvg7d  *float64
	MentionsAvg7d   *float64
	Correlation     *float64
}

// Table is the aligned series together with which derived columns exist
type Table struct {
	Records        []Record
	HasChange      bool
	HasRolling     bool
	HasCorrelation bool
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Followers returns the follower column
func (t *Table) Followers() []float64 {
	out := make([]float64, t.Len())
	for i, r := range t.Records {
		out[i] = r.Followers
	}
	return out
}

// Mentions returns the mentions column
func (t *Table) Mentions() []float64 {
	out := make([]float64, t.Len())
	for i, r := range t.Records {
		out[i] = r.Mentions
	}
	return out
}

// CorrelationValue returns the whole-series correlation, if it was computed
func (t *Table) CorrelationValue() (float64, bool) {
	if t.Len() == 0 || !t.HasCorrelation {
		return 0, false
	}
	return *t.Records[0].Correlation, true
}

// Align merges the follower and mention series into one row per date in
// the union of their dates. Followers are forward-filled from the latest
// earlier value (0 before any value); mentions default to 0. When a
// series repeats a date, the last value for that date wins.
func Align(followers, mentions []tracker.DatedMetric) *Table {
	followerByDate := index(followers)
	mentionByDate := index(mentions)

	dates := make([]time.Time, 0, len(followerByDate)+len(mentionByDate))
	seen := make(map[time.Time]bool, cap(dates))
	for _, m := range [...]map[time.Time]float64{followerByDate, mentionByDate} {
		for d := range m {
			if !seen[d] {
				seen[d] = true
				dates = append(dates, d)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	table := &Table{Records: make([]Record, len(dates))}
	lastFollowers := 0.0
	for i, d := range dates {
		if v, ok := followerByDate[d]; ok {
			lastFollowers = v
		}
		table.Records[i] = Record{
			Date:      d,
			Followers: lastFollowers,
			Mentions:  mentionByDate[d],
		}
	}

	n := len(table.Records)
	if n >= MinRowsForChange {
		addChanges(table)
	}
	if n >= MinRowsForRolling {
		addRolling(table)
	}
	if n >= MinRowsForCorrelation {
		r := Correlation(table.Followers(), table.Mentions())
		for i := range table.Records {
			table.Records[i].Correlation = ptr(r)
		}
		table.HasCorrelation = true
	}
	return table
}

// index keys a series by calendar day
func index(series []tracker.DatedMetric) map[time.Time]float64 {
	out := make(map[time.Time]float64, len(series))
	for _, m := range series {
		out[tracker.Day(m.Date)] = m.Value
	}
	return out
}

func addChanges(t *Table) {
	for i := 1; i < len(t.Records); i++ {
		prev, cur := t.Records[i-1], &t.Records[i]
		cur.FollowersChange = ptr(cur.Followers - prev.Followers)
		cur.MentionsChange = ptr(cur.Mentions - prev.Mentions)
	}
	t.HasChange = true
}

func addRolling(t *Table) {
	followers := RollingMean(t.Followers(), RollingWindow)
	mentions := RollingMean(t.Mentions(), RollingWindow)
	for i := range t.Records {
		t.Records[i].FollowersAvg7d = ptr(followers[i])
		t.Records[i].MentionsAvg7d = ptr(mentions[i])
	}
	t.HasRolling = true
}

// RollingMean returns the trailing mean over up to window values ending at
// each position; near the start the window shrinks to what is available
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		count := i + 1
		if count > window {
			count = window
		}
		out[i] = sum / float64(count)
	}
	return out
}

func ptr(v float64) *float64 {
	return &v
}

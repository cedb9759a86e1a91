package output

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"gametracker/pkg/align"
	"gametracker/pkg/tracker"
)

// Columns returns the CSV header for table. Optional columns are present
// only when the aligner computed them.
func Columns(table *align.Table) []string {
	cols := []string{"date", "followers", "mentions"}
	if table.HasChange {
		cols = append(cols, "followers_change", "mentions_change")
	}
	if table.HasRolling {
		cols = append(cols, "followers_avg_7d", "mentions_avg_7d")
	}
	if table.HasCorrelation {
		cols = append(cols, "correlation")
	}
	return cols
}

// EncodeCSV writes the header and one row per record. Dates use
// YYYY-MM-DD and numbers are rounded to two decimals.
func EncodeCSV(w io.Writer, table *align.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns(table)); err != nil {
		return err
	}

	for _, r := range table.Records {
		row := []string{
			r.Date.Format(tracker.DateLayout),
			formatNumber(r.Followers),
			formatNumber(r.Mentions),
		}
		if table.HasChange {
			row = append(row, formatOptional(r.FollowersChange), formatOptional(r.MentionsChange))
		}
		if table.HasRolling {
			row = append(row, formatOptional(r.FollowersAvg7d), formatOptional(r.MentionsAvg7d))
		}
		if table.HasCorrelation {
			row = append(row, formatOptional(r.Correlation))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatNumber(v float64) string {
	r := round2(v)
	if r == 0 {
		r = 0 // normalizes -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}

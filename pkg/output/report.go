package output

import (
	"fmt"
	"strings"
	"time"

	"gametracker/pkg/align"
	"gametracker/pkg/config"
	"gametracker/pkg/tracker"
)

// ReportInfo is the run context printed at the top of the report
type ReportInfo struct {
	Tracking  config.TrackingConfig
	Game      tracker.GameInfo
	Generated time.Time
}

// RenderReport formats the analysis report
func RenderReport(table *align.Table, info ReportInfo) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("Game Tracker - Analysis Report")
	line("%s", strings.Repeat("=", 50))
	line("Generated: %s", info.Generated.Format("2006-01-02 15:04:05"))
	line("Game: %s", info.Tracking.TargetName)
	line("App ID: %d", info.Tracking.TargetID)
	if info.Game.Title != "" {
		line("Page Title: %s", info.Game.Title)
	}
	line("Tracking Period: %d days", info.Tracking.WindowDays)
	line("")

	if table.Len() == 0 {
		line("No data collected.")
		return b.String()
	}

	followers := align.Describe(table.Followers())
	line("Followers Analysis:")
	line("  Count: %d", followers.Count)
	line("  Mean: %.2f", followers.Mean)
	line("  Std: %.2f", followers.Std)
	line("  Min: %.0f", followers.Min)
	line("  Max: %.0f", followers.Max)
	line("")

	mentions := align.Describe(table.Mentions())
	line("Mentions Analysis:")
	line("  Total Mentions: %.0f", mentions.Sum)
	line("  Daily Average: %.2f", mentions.Mean)
	line("  Std: %.2f", mentions.Std)
	line("  Max Daily: %.0f", mentions.Max)
	line("")

	if r, ok := table.CorrelationValue(); ok {
		line("Correlation Analysis:")
		line("  Followers vs Mentions: %.4f", r)
		line("  Interpretation: %s %s correlation", align.Strength(r), align.Direction(r))
		line("")
	}

	return b.String()
}

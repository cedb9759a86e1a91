package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"gametracker/pkg/align"
	"gametracker/pkg/config"
	"gametracker/pkg/tracker"
)

const previewRows = 5

// PrintSummary writes the end-of-run data summary to w
func PrintSummary(w io.Writer, table *align.Table, tracking config.TrackingConfig) {
	st := newStyles(w)
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, st.title.Render("GAME TRACKER - DATA SUMMARY"))
	fmt.Fprintln(w, rule)

	if table.Len() == 0 {
		fmt.Fprintln(w, "No data to display.")
		fmt.Fprintln(w, rule)
		return
	}

	kv := func(label string, value string) {
		fmt.Fprintf(w, "%s %s\n", st.label.Render(label+":"), st.value.Render(value))
	}

	kv("Game", tracking.TargetName)
	kv("App ID", fmt.Sprint(tracking.TargetID))
	kv("Tracking Period", fmt.Sprintf("%d days", tracking.WindowDays))
	kv("Data Points", fmt.Sprint(table.Len()))
	kv("Date Range", fmt.Sprintf("%s to %s",
		table.Records[0].Date.Format(tracker.DateLayout),
		table.Records[table.Len()-1].Date.Format(tracker.DateLayout)))

	followers := align.Describe(table.Followers())
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.label.Render("Followers:"))
	fmt.Fprintf(w, "  Average: %.0f\n", followers.Mean)
	fmt.Fprintf(w, "  Min: %.0f\n", followers.Min)
	fmt.Fprintf(w, "  Max: %.0f\n", followers.Max)

	mentions := align.Describe(table.Mentions())
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.label.Render("Mentions:"))
	fmt.Fprintf(w, "  Total: %.0f\n", mentions.Sum)
	fmt.Fprintf(w, "  Daily Average: %.1f\n", mentions.Mean)
	fmt.Fprintf(w, "  Max Daily: %.0f\n", mentions.Max)

	if r, ok := table.CorrelationValue(); ok {
		fmt.Fprintln(w)
		kv("Correlation (Followers vs Mentions)", fmt.Sprintf("%.3f", r))
	}

	n := table.Len()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "First %d rows:\n", min(previewRows, n))
	printRows(w, st, table, 0, min(previewRows, n))

	if n > previewRows {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Last %d rows:\n", previewRows)
		printRows(w, st, table, n-previewRows, n)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

func printRows(w io.Writer, st styles, data *align.Table, from, to int) {
	rows := make([][]string, 0, to-from)
	for _, r := range data.Records[from:to] {
		rows = append(rows, []string{
			r.Date.Format(tracker.DateLayout),
			fmt.Sprintf("%.0f", r.Followers),
			fmt.Sprintf("%.0f", r.Mentions),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.dim).
		Headers("date", "followers", "mentions").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := st.cell
			if row == table.HeaderRow {
				style = st.header
			}
			if col > 0 {
				return style.Align(lipgloss.Right)
			}
			return style
		})
	fmt.Fprintln(w, t.Render())
}

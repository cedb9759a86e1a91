package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gametracker/pkg/align"
	"gametracker/pkg/tracker"
)

// ErrNoData is returned when there is nothing to chart
var ErrNoData = errors.New("no data to visualize")

const defaultBarWidth = 30

// ChartRenderer draws the aligned table as horizontal bar charts, one
// panel for followers and one for mentions
type ChartRenderer struct {
	Title    string
	BarWidth int
}

// Render writes the chart to w. Color is used only when w is a terminal.
func (c ChartRenderer) Render(w io.Writer, table *align.Table) error {
	if table.Len() == 0 {
		return ErrNoData
	}

	st := newStyles(w)
	width := c.BarWidth
	if width <= 0 {
		width = defaultBarWidth
	}

	followers := c.panel(st, st.follower, "Followers", table, width,
		func(r align.Record) float64 { return r.Followers },
		func(r align.Record) *float64 { return r.FollowersAvg7d })
	mentions := c.panel(st, st.mention, "Mentions", table, width,
		func(r align.Record) float64 { return r.Mentions },
		func(r align.Record) *float64 { return r.MentionsAvg7d })

	parts := []string{st.title.Render(c.Title), followers, mentions}
	if r, ok := table.CorrelationValue(); ok {
		parts = append(parts, st.dim.Render(fmt.Sprintf("Correlation (followers vs mentions): %.3f, %s %s",
			r, strings.ToLower(align.Strength(r)), align.Direction(r))))
	}

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, parts...))
	return err
}

func (c ChartRenderer) panel(st styles, barStyle lipgloss.Style, name string, table *align.Table, width int,
	value func(align.Record) float64, avg func(align.Record) *float64) string {
	maxValue := 0.0
	for _, r := range table.Records {
		if v := value(r); v > maxValue {
			maxValue = v
		}
	}

	var b strings.Builder
	b.WriteString(st.label.Render(name))
	for _, r := range table.Records {
		v := value(r)
		filled := 0
		if maxValue > 0 && v > 0 {
			filled = int(v / maxValue * float64(width))
		}
		b.WriteByte('\n')
		b.WriteString(r.Date.Format(tracker.DateLayout))
		b.WriteString(" ")
		b.WriteString(barStyle.Render(strings.Repeat(ProgressBar, filled)))
		b.WriteString(st.dim.Render(strings.Repeat(ProgressEmpty, width-filled)))
		b.WriteString(" ")
		b.WriteString(st.value.Render(FormatNumber(v)))
		if a := avg(r); a != nil {
			b.WriteString(st.dim.Render(fmt.Sprintf("  7d avg %s", FormatNumber(*a))))
		}
	}
	return st.panel.Render(b.String())
}

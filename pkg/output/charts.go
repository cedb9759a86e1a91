package output

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"gametracker/pkg/align"
	"gametracker/pkg/tracker"
)

var (
	// ErrNoData is returned when there is nothing to chart
	ErrNoData = errors.New("no data to visualize")
	// ErrTooFewRows is returned when the table is too short for a trend analysis
	ErrTooFewRows = errors.New("insufficient data for trend analysis")
)

const (
	followerColor = "#1f77b4"
	mentionColor  = "#d62728"
	averageColor  = "#ff7f0e"
)

// ChartInfo labels the chart pages
type ChartInfo struct {
	GameName  string
	Generated time.Time
}

func boolPtr(b bool) *bool { return &b }

// RenderGraph writes an HTML page with the follower line chart and the
// mentions bar chart. The 7-day averages are drawn when the table has them.
func RenderGraph(w io.Writer, table *align.Table, info ChartInfo) error {
	if table.Len() == 0 {
		return ErrNoData
	}

	dates := chartDates(table)
	subtitle := "Generated: " + info.Generated.Format("2006-01-02 15:04")
	if r, ok := table.CorrelationValue(); ok {
		subtitle = fmt.Sprintf("Correlation: %.3f | %s", r, subtitle)
	}

	followers := charts.NewLine()
	followers.SetGlobalOptions(baseOptions("Follower Count Over Time", subtitle, "Followers")...)
	followers.SetXAxis(dates).
		AddSeries("Followers", lineData(table, func(r align.Record) *float64 { return &r.Followers }),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: followerColor}))
	if table.HasRolling {
		followers.AddSeries("7-day Average", lineData(table, func(r align.Record) *float64 { return r.FollowersAvg7d }),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: averageColor}))
	}

	mentions := charts.NewBar()
	mentions.SetGlobalOptions(baseOptions("Forum Mentions per Day", "", "Mentions")...)
	mentions.SetXAxis(dates).
		AddSeries("Mentions", barData(table, func(r align.Record) *float64 { return &r.Mentions }),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: mentionColor}))
	if table.HasRolling {
		avg := charts.NewLine()
		avg.SetXAxis(dates).
			AddSeries("7-day Average", lineData(table, func(r align.Record) *float64 { return r.MentionsAvg7d }),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: averageColor}))
		mentions.Overlap(avg)
	}

	page := components.NewPage()
	page.PageTitle = "Game Analytics: " + info.GameName
	page.AddCharts(followers, mentions)
	return page.Render(w)
}

// RenderTrend writes an HTML page with the daily follower and mention
// changes as bar charts. It needs at least a week of rows.
func RenderTrend(w io.Writer, table *align.Table, info ChartInfo) error {
	if table.Len() < align.RollingWindow || !table.HasChange {
		return ErrTooFewRows
	}

	dates := chartDates(table)

	followers := charts.NewBar()
	followers.SetGlobalOptions(baseOptions("Daily Follower Changes", info.GameName, "Change in Followers")...)
	followers.SetXAxis(dates).
		AddSeries("Followers", barData(table, func(r align.Record) *float64 { return r.FollowersChange }),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: followerColor}))

	mentions := charts.NewBar()
	mentions.SetGlobalOptions(baseOptions("Daily Mention Changes", info.GameName, "Change in Mentions")...)
	mentions.SetXAxis(dates).
		AddSeries("Mentions", barData(table, func(r align.Record) *float64 { return r.MentionsChange }),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: mentionColor}))

	page := components.NewPage()
	page.PageTitle = "Trend Analysis: " + info.GameName
	page.AddCharts(followers, mentions)
	return page.Render(w)
}

func baseOptions(title, subtitle, yName string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "100%",
			Height: "400px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true)}),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Date",
			AxisLabel: &opts.AxisLabel{Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: yName,
		}),
		charts.WithGridOpts(opts.Grid{
			ContainLabel: boolPtr(true),
			Left:         "3%",
			Right:        "4%",
			Bottom:       "15%",
		}),
	}
}

func chartDates(table *align.Table) []string {
	dates := make([]string, 0, table.Len())
	for _, r := range table.Records {
		dates = append(dates, r.Date.Format(tracker.DateLayout))
	}
	return dates
}

// Missing values are plotted as gaps
func lineData(table *align.Table, value func(align.Record) *float64) []opts.LineData {
	data := make([]opts.LineData, 0, table.Len())
	for _, r := range table.Records {
		if v := value(r); v != nil {
			data = append(data, opts.LineData{Value: round2(*v)})
		} else {
			data = append(data, opts.LineData{Value: "-"})
		}
	}
	return data
}

func barData(table *align.Table, value func(align.Record) *float64) []opts.BarData {
	data := make([]opts.BarData, 0, table.Len())
	for _, r := range table.Records {
		if v := value(r); v != nil {
			data = append(data, opts.BarData{Value: round2(*v)})
		} else {
			data = append(data, opts.BarData{Value: "-"})
		}
	}
	return data
}

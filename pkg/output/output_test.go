package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gametracker/pkg/align"
	"gametracker/pkg/config"
	"gametracker/pkg/tracker"
)

var d0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func buildTable(followers, mentions []float64) *align.Table {
	var f, m []tracker.DatedMetric
	for i, v := range followers {
		f = append(f, tracker.DatedMetric{Date: d0.AddDate(0, 0, i), Value: v})
	}
	for i, v := range mentions {
		m = append(m, tracker.DatedMetric{Date: d0.AddDate(0, 0, i), Value: v})
	}
	return align.Align(f, m)
}

func TestEncodeCSVShortTable(t *testing.T) {
	table := buildTable([]float64{100, 120}, []float64{3, 5})

	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, table))

	want := "date,followers,mentions,followers_change,mentions_change\n" +
		"2024-03-01,100,3,,\n" +
		"2024-03-02,120,5,20,2\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeCSVSingleRow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, buildTable([]float64{7}, nil)))
	assert.Equal(t, "date,followers,mentions\n2024-03-01,7,0\n", buf.String())
}

func TestEncodeCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, align.Align(nil, nil)))
	assert.Equal(t, "date,followers,mentions\n", buf.String())
}

func TestEncodeCSVAllColumns(t *testing.T) {
	followers := make([]float64, 10)
	mentions := make([]float64, 10)
	for i := range followers {
		followers[i] = float64(1000 + i*i)
		mentions[i] = float64(i % 3)
	}
	table := buildTable(followers, mentions)

	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, table))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "date,followers,mentions,followers_change,mentions_change,followers_avg_7d,mentions_avg_7d,correlation", lines[0])
	for _, l := range lines[1:] {
		assert.Len(t, strings.Split(l, ","), 8)
	}
	// mean of 1000, 1001, 1004
	assert.Contains(t, lines[3], ",1001.67,")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "3.33", formatNumber(10.0/3))
	assert.Equal(t, "2.5", formatNumber(2.5))
	assert.Equal(t, "0", formatNumber(-0.001))
	assert.Equal(t, "-1.5", formatNumber(-1.5))
	assert.Equal(t, "1234567", formatNumber(1234567))
}

func TestRenderReport(t *testing.T) {
	followers := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	mentions := []float64{2, 4, 6, 8, 10, 12, 14, 16, 18, 20}
	info := ReportInfo{
		Tracking:  config.TrackingConfig{TargetName: "Hades", TargetID: 1145360, WindowDays: 9},
		Game:      tracker.GameInfo{Title: "Hades"},
		Generated: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	report := RenderReport(buildTable(followers, mentions), info)

	assert.Contains(t, report, "Generated: 2024-03-10 12:00:00")
	assert.Contains(t, report, "App ID: 1145360")
	assert.Contains(t, report, "Page Title: Hades")
	assert.Contains(t, report, "Tracking Period: 9 days")
	assert.Contains(t, report, "  Count: 10")
	assert.Contains(t, report, "  Mean: 5.50")
	assert.Contains(t, report, "  Total Mentions: 110")
	assert.Contains(t, report, "  Followers vs Mentions: 1.0000")
	assert.Contains(t, report, "  Interpretation: Strong positive correlation")
}

func TestRenderReportWithoutCorrelation(t *testing.T) {
	report := RenderReport(buildTable([]float64{1, 2}, []float64{0, 0}), ReportInfo{})
	assert.NotContains(t, report, "Correlation Analysis")

	empty := RenderReport(align.Align(nil, nil), ReportInfo{})
	assert.Contains(t, empty, "No data collected.")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"results.csv", "results.csv"},
		{`Half-Life: Alyx?`, "Half-Life_ Alyx_"},
		{` ..a/b\c|d*e<f>g". `, `a_b_c_d_e_f_g_`},
		{strings.Repeat("é", 250), strings.Repeat("é", 200)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}
}

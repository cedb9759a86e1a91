package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gametracker/pkg/align"
)

var chartInfo = ChartInfo{GameName: "Hades", Generated: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}

func weekAndMore() *align.Table {
	return buildTable(
		[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		[]float64{2, 4, 6, 8, 10, 12, 14, 16, 18, 20},
	)
}

func TestRenderGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderGraph(&buf, weekAndMore(), chartInfo))

	page := buf.String()
	assert.Contains(t, page, "Game Analytics: Hades")
	assert.Contains(t, page, "Follower Count Over Time")
	assert.Contains(t, page, "Forum Mentions per Day")
	assert.Contains(t, page, "7-day Average")
	assert.Contains(t, page, "2024-03-01")
	assert.Contains(t, page, "2024-03-10")
	assert.Contains(t, page, "Correlation: 1.000")
	assert.Contains(t, page, "Generated: 2024-03-10 12:00")
}

func TestRenderGraphShortTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderGraph(&buf, buildTable([]float64{5, 6, 7}, []float64{1, 0, 2}), chartInfo))

	page := buf.String()
	assert.Contains(t, page, "Follower Count Over Time")
	assert.NotContains(t, page, "7-day Average")
	assert.NotContains(t, page, "Correlation:")
}

func TestRenderGraphEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderGraph(&buf, align.Align(nil, nil), chartInfo), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestRenderTrend(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTrend(&buf, weekAndMore(), chartInfo))

	page := buf.String()
	assert.Contains(t, page, "Trend Analysis: Hades")
	assert.Contains(t, page, "Daily Follower Changes")
	assert.Contains(t, page, "Daily Mention Changes")
}

func TestRenderTrendNeedsAWeek(t *testing.T) {
	var buf bytes.Buffer
	short := buildTable([]float64{1, 2, 3, 4, 5, 6}, []float64{0, 1, 0, 1, 0, 1})

	assert.ErrorIs(t, RenderTrend(&buf, short, chartInfo), ErrTooFewRows)
	assert.ErrorIs(t, RenderTrend(&buf, align.Align(nil, nil), chartInfo), ErrTooFewRows)
	assert.Zero(t, buf.Len())
}

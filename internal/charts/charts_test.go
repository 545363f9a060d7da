package charts

import (
	"bytes"
	"encoding/json"
	"testing"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikepulse/internal/analytics"
	"bikepulse/pkg/contracts/domain"
)

func TestFormatThousands(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatThousands(tt.in))
	}
}

func TestWeatherCharts(t *testing.T) {
	cmp := &analytics.WeatherComparison{
		Daily: analytics.WeatherSummary{
			Totals: []analytics.CategoryTotal{{Category: "Clear", Total: 300}, {Category: "Mist", Total: 100}},
			Distributions: []analytics.BoxStats{
				analytics.NewBoxStats("Clear", []float64{100, 100, 100}),
				analytics.NewBoxStats("Mist", []float64{10, 20, 30, 40, 400}),
			},
		},
	}

	out := WeatherCharts(cmp, DefaultStyle())
	require.Len(t, out, 2, "hourly summary is empty so only the daily pair is drawn")

	bar, ok := out[0].(*echarts.Bar)
	require.True(t, ok)
	data := bar.MultiSeries[0].Data.([]opts.BarData)
	require.Len(t, data, 2)
	assert.Equal(t, "Clear", data[0].Name)
	assert.Equal(t, int64(300), data[0].Value)

	_, ok = out[1].(*echarts.BoxPlot)
	assert.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, "Weather", DefaultStyle(), "", out...))
	assert.Contains(t, buf.String(), "Total Rentals per Weather Condition (Day)")
	assert.Contains(t, buf.String(), "Rental Distribution per Weather Condition (Day)")
	assert.NotContains(t, buf.String(), "(Hour)")
}

func TestTemporalChartsSkipsEmptyPanels(t *testing.T) {
	p := &analytics.TemporalPattern{
		Weekdays: []analytics.WeekdayTotal{{Index: 0, Weekday: "Monday", Total: 10}},
	}
	out := TemporalCharts(p, DefaultStyle())
	require.Len(t, out, 1)
	_, ok := out[0].(*echarts.Line)
	assert.True(t, ok)
}

func TestHourlyChartSeries(t *testing.T) {
	p := &analytics.TemporalPattern{
		Hourly: []analytics.HourlyPoint{
			{Hour: 7, DayType: domain.DayTypeWorkday, Total: 50},
			{Hour: 8, DayType: domain.DayTypeWorkday, Total: 70},
			{Hour: 8, DayType: domain.DayTypeHoliday, Total: 20},
		},
		Hours:          []int{7, 8},
		HourlyDayTypes: []domain.DayType{domain.DayTypeWorkday, domain.DayTypeHoliday},
		Rush:           []analytics.RushWindow{analytics.RushWindows[0]},
	}

	line := hourlyChart(p, DefaultStyle())
	require.Len(t, line.MultiSeries, 2)
	assert.Equal(t, string(domain.DayTypeWorkday), line.MultiSeries[0].Name)
	assert.Equal(t, string(domain.DayTypeHoliday), line.MultiSeries[1].Name)

	holiday := line.MultiSeries[1].Data.([]opts.LineData)
	require.Len(t, holiday, 2)
	assert.Nil(t, holiday[0].Value, "missing hour is a gap, not zero")
	assert.Equal(t, int64(20), holiday[1].Value)

	assert.NotNil(t, line.MultiSeries[0].MarkAreas)
	assert.Nil(t, line.MultiSeries[1].MarkAreas)
}

func TestRushAreasClipToAvailableHours(t *testing.T) {
	p := &analytics.TemporalPattern{
		Hours: []int{5, 6, 7, 8},
		Rush:  analytics.RushWindows,
	}

	applied := rushAreas(p, DefaultStyle())
	require.Len(t, applied, 1, "no hour falls in the evening window")

	s := &echarts.SingleSeries{}
	applied[0](s)
	raw, err := json.Marshal(s.MarkAreas.Data)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Morning rush"`)
	assert.Contains(t, string(raw), `["7","min"]`)
	assert.Contains(t, string(raw), `["8","max"]`)
}

func TestTimeOfDayChartsOrder(t *testing.T) {
	b := &analytics.TimeOfDayBreakdown{Buckets: []analytics.BucketTotal{
		{Bucket: domain.Morning, Label: domain.Morning.Label(), Total: 10},
		{Bucket: domain.Evening, Label: domain.Evening.Label(), Total: 5},
	}}

	out := TimeOfDayCharts(b, DefaultStyle())
	require.Len(t, out, 1)
	bar := out[0].(*echarts.Bar)
	data := bar.MultiSeries[0].Data.([]opts.BarData)

	// Reversed so Morning is drawn at the top of the category axis.
	require.Len(t, data, 2)
	assert.Equal(t, domain.Evening.Label(), data[0].Name)
	assert.Equal(t, domain.Morning.Label(), data[1].Name)
	assert.Equal(t, "#8dd3c7", data[1].ItemStyle.Color)
	assert.Equal(t, "Busiest: Morning (06:00-12:00) with 10 rentals", bar.Title.Subtitle)
}

func TestTimeOfDayChartsPeakSubtitle(t *testing.T) {
	b := &analytics.TimeOfDayBreakdown{Buckets: []analytics.BucketTotal{
		{Bucket: domain.Morning, Label: domain.Morning.Label(), Total: 1200},
		{Bucket: domain.Evening, Label: domain.Evening.Label(), Total: 45210},
	}}

	bar := TimeOfDayCharts(b, DefaultStyle())[0].(*echarts.Bar)
	assert.Equal(t, "Busiest: Evening (18:00-00:00) with 45,210 rentals", bar.Title.Subtitle)
}

func TestRenderPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPlaceholder(&buf, "Time of Day", "No data <here>", true))
	assert.Contains(t, buf.String(), "No data &lt;here&gt;")
	assert.Contains(t, buf.String(), `class="placeholder error"`)
}

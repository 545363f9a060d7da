package exporter

import (
	"strconv"

	"bikepulse/internal/analytics"
)

// Table is one aggregated result in tabular form. The first column of every
// row is the category the remaining metrics describe.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Table names, also used as worksheet names.
const (
	TableWeatherDailyTotals        = "weather_daily_totals"
	TableWeatherDailyDistribution  = "weather_daily_distribution"
	TableWeatherHourlyTotals       = "weather_hourly_totals"
	TableWeatherHourlyDistribution = "weather_hourly_distribution"
	TableDayTypeTotals             = "day_type_totals"
	TableWeekdayTotals             = "weekday_totals"
	TableHourlyPattern             = "hourly_pattern"
	TableTimeOfDayTotals           = "time_of_day_totals"
)

// BuildTables flattens whatever analyses are available. Nil inputs and empty
// breakdowns contribute no table.
func BuildTables(weather *analytics.WeatherComparison, temporal *analytics.TemporalPattern, tod *analytics.TimeOfDayBreakdown) []Table {
	var out []Table
	if weather != nil {
		out = appendWeather(out, weather.Daily, TableWeatherDailyTotals, TableWeatherDailyDistribution)
		out = appendWeather(out, weather.Hourly, TableWeatherHourlyTotals, TableWeatherHourlyDistribution)
	}
	if temporal != nil {
		out = appendTemporal(out, temporal)
	}
	if tod != nil && len(tod.Buckets) > 0 {
		t := Table{Name: TableTimeOfDayTotals, Headers: []string{"time_of_day", "label", "total_rentals"}}
		for _, b := range tod.Buckets {
			t.Rows = append(t.Rows, []string{string(b.Bucket), b.Label, formatInt(b.Total)})
		}
		out = append(out, t)
	}
	return out
}

func appendWeather(out []Table, s analytics.WeatherSummary, totalsName, distName string) []Table {
	if s.Empty() {
		return out
	}

	totals := Table{Name: totalsName, Headers: []string{"weathersit", "total_rentals"}}
	for _, ct := range s.Totals {
		totals.Rows = append(totals.Rows, []string{ct.Category, formatInt(ct.Total)})
	}

	dist := Table{Name: distName, Headers: []string{
		"weathersit", "count", "lower_whisker", "q1", "median", "q3", "upper_whisker", "mean", "outliers",
	}}
	for _, d := range s.Distributions {
		dist.Rows = append(dist.Rows, []string{
			d.Category,
			strconv.Itoa(d.Count),
			formatFloat(d.LowerWhisker),
			formatFloat(d.Q1),
			formatFloat(d.Median),
			formatFloat(d.Q3),
			formatFloat(d.UpperWhisker),
			formatFloat(d.Mean),
			strconv.Itoa(len(d.Outliers)),
		})
	}
	return append(out, totals, dist)
}

func appendTemporal(out []Table, p *analytics.TemporalPattern) []Table {
	if len(p.DayTypes) > 0 {
		t := Table{Name: TableDayTypeTotals, Headers: []string{"day_type", "total_rentals", "percent"}}
		for _, d := range p.DayTypes {
			t.Rows = append(t.Rows, []string{string(d.DayType), formatInt(d.Total), formatFloat(d.Percent)})
		}
		out = append(out, t)
	}
	if len(p.Weekdays) > 0 {
		t := Table{Name: TableWeekdayTotals, Headers: []string{"weekday", "total_rentals"}}
		for _, d := range p.Weekdays {
			t.Rows = append(t.Rows, []string{d.Weekday, formatInt(d.Total)})
		}
		out = append(out, t)
	}
	if len(p.Hourly) > 0 {
		t := Table{Name: TableHourlyPattern, Headers: []string{"hour", "day_type", "total_rentals"}}
		for _, pt := range p.Hourly {
			t.Rows = append(t.Rows, []string{strconv.Itoa(pt.Hour), string(pt.DayType), formatInt(pt.Total)})
		}
		out = append(out, t)
	}
	return out
}

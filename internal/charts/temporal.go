package charts

import (
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"bikepulse/internal/analytics"
	"bikepulse/pkg/contracts/domain"
)

// TemporalCaption is shown under the temporal panel when it has more than one chart.
const TemporalCaption = "Charts above compare rentals by day type, across the week and by hour of the day."

// TemporalCharts draws only the sub-panels that have data.
func TemporalCharts(p *analytics.TemporalPattern, style Style) []components.Charter {
	var out []components.Charter
	if len(p.DayTypes) > 0 {
		out = append(out, dayTypeChart(p.DayTypes, style))
	}
	if len(p.Weekdays) > 0 {
		out = append(out, weekdayChart(p.Weekdays, style))
	}
	if len(p.Hourly) > 0 {
		out = append(out, hourlyChart(p, style))
	}
	return out
}

func dayTypeChart(totals []analytics.DayTypeTotal, style Style) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: style.Width, Height: style.Height}),
		charts.WithTitleOpts(opts.Title{Title: "Rental Volume: Workday vs Holiday"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Total Rentals", AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Formatter: thousandsAxis}}),
	)

	categories := make([]string, 0, len(totals))
	percents := make([]float64, 0, len(totals))
	data := make([]opts.BarData, 0, len(totals))
	for _, t := range totals {
		categories = append(categories, string(t.DayType))
		percents = append(percents, t.Percent)
		data = append(data, opts.BarData{
			Name:      string(t.DayType),
			Value:     t.Total,
			ItemStyle: &opts.ItemStyle{Color: style.DayType[t.DayType]},
		})
	}

	bar.SetXAxis(categories).AddSeries("Total Rentals", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top", Formatter: percentLabel(percents)}),
	)
	return bar
}

func weekdayChart(totals []analytics.WeekdayTotal, style Style) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: style.Width, Height: style.Height}),
		charts.WithTitleOpts(opts.Title{Title: "Rental Pattern Across the Week"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Total Rentals", AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Formatter: thousandsAxis}}),
	)

	days := make([]string, 0, len(totals))
	data := make([]opts.LineData, 0, len(totals))
	for _, t := range totals {
		days = append(days, t.Weekday)
		data = append(data, opts.LineData{Name: t.Weekday, Value: t.Total, Symbol: "circle", SymbolSize: 8})
	}

	line.SetXAxis(days).AddSeries("Total Rentals", data,
		charts.WithLineStyleOpts(opts.LineStyle{Color: style.Weekday, Width: 2.5}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: style.Weekday}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top", Formatter: thousandsLabel}),
	)
	return line
}

func hourlyChart(p *analytics.TemporalPattern, style Style) *charts.Line {
	title := "Hourly Rental Pattern"
	if p.SplitByDayType() {
		title = "Hourly Rental Pattern: Workday vs Holiday"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: style.Width, Height: style.Height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(p.SplitByDayType()), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hour"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Rentals", AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Formatter: thousandsAxis}}),
	)

	hours := make([]string, 0, len(p.Hours))
	for _, h := range p.Hours {
		hours = append(hours, strconv.Itoa(h))
	}
	line.SetXAxis(hours)

	totals := make(map[domain.DayType]map[int]int64)
	for _, pt := range p.Hourly {
		if totals[pt.DayType] == nil {
			totals[pt.DayType] = make(map[int]int64)
		}
		totals[pt.DayType][pt.Hour] = pt.Total
	}

	for i, dt := range p.HourlyDayTypes {
		data := make([]opts.LineData, 0, len(p.Hours))
		for _, h := range p.Hours {
			if v, ok := totals[dt][h]; ok {
				data = append(data, opts.LineData{Value: v, Symbol: "circle", SymbolSize: 6})
			} else {
				data = append(data, opts.LineData{Value: nil})
			}
		}

		name := "Rentals"
		color := style.DayType[domain.DayTypeWorkday]
		if p.SplitByDayType() {
			name = string(dt)
			color = style.DayType[dt]
		}

		seriesOpts := []charts.SeriesOpts{
			charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		}
		if i == 0 {
			seriesOpts = append(seriesOpts, rushAreas(p, style)...)
		}
		line.AddSeries(name, data, seriesOpts...)
	}
	return line
}

// rushAreas shades each rush window, clipped to the hours on the axis.
func rushAreas(p *analytics.TemporalPattern, style Style) []charts.SeriesOpts {
	var out []charts.SeriesOpts
	for _, w := range p.Rush {
		from, to := -1, -1
		for _, h := range p.Hours {
			if h < w.FromHour || h > w.ToHour {
				continue
			}
			if from < 0 {
				from = h
			}
			to = h
		}
		if from < 0 {
			continue
		}
		out = append(out, charts.WithMarkAreaNameCoordItemOpts(opts.MarkAreaNameCoordItem{
			Name:        w.Name,
			Coordinate0: []interface{}{strconv.Itoa(from), "min"},
			Coordinate1: []interface{}{strconv.Itoa(to), "max"},
			ItemStyle:   &opts.ItemStyle{Color: style.Rush[w.Name], Opacity: opts.Float(0.2)},
		}))
	}
	return out
}

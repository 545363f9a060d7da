package charts

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"bikepulse/internal/analytics"
)

// WeatherCharts draws the totals and distribution charts for each granularity
// that has rows, daily first.
func WeatherCharts(c *analytics.WeatherComparison, style Style) []components.Charter {
	var out []components.Charter
	if !c.Daily.Empty() {
		out = append(out,
			weatherTotals(c.Daily, "Day", style.WeatherDaily, style),
			weatherDistribution(c.Daily, "Day", style.BoxDaily, style),
		)
	}
	if !c.Hourly.Empty() {
		out = append(out,
			weatherTotals(c.Hourly, "Hour", style.WeatherHourly, style),
			weatherDistribution(c.Hourly, "Hour", style.BoxHourly, style),
		)
	}
	return out
}

func weatherTotals(s analytics.WeatherSummary, granularity string, palette []string, style Style) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: style.Width, Height: style.Height}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Total Rentals per Weather Condition (%s)", granularity)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Weather Condition"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Total Rentals", AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Formatter: thousandsAxis}}),
	)

	categories := make([]string, 0, len(s.Totals))
	data := make([]opts.BarData, 0, len(s.Totals))
	for i, ct := range s.Totals {
		categories = append(categories, ct.Category)
		data = append(data, opts.BarData{
			Name:      ct.Category,
			Value:     ct.Total,
			ItemStyle: &opts.ItemStyle{Color: pick(palette, i)},
		})
	}

	bar.SetXAxis(categories).AddSeries("Total Rentals", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top", Formatter: thousandsLabel}),
	)
	return bar
}

func weatherDistribution(s analytics.WeatherSummary, granularity, color string, style Style) *charts.BoxPlot {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: style.Width, Height: style.Height}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Rental Distribution per Weather Condition (%s)", granularity)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Weather Condition"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Total Rentals", AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Formatter: thousandsAxis}}),
	)

	categories := make([]string, 0, len(s.Distributions))
	data := make([]opts.BoxPlotData, 0, len(s.Distributions))
	var outliers []opts.ScatterData
	for _, d := range s.Distributions {
		categories = append(categories, d.Category)
		data = append(data, opts.BoxPlotData{
			Name:  d.Category,
			Value: []float64{d.LowerWhisker, d.Q1, d.Median, d.Q3, d.UpperWhisker},
		})
		for _, v := range d.Outliers {
			outliers = append(outliers, opts.ScatterData{Value: []interface{}{d.Category, v}, SymbolSize: 6})
		}
	}

	box.SetXAxis(categories).AddSeries("Total Rentals", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ffffff", BorderColor: color}),
	)

	if len(outliers) > 0 {
		scatter := charts.NewScatter()
		scatter.SetXAxis(categories).AddSeries("Outliers", outliers,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: style.Outlier}),
		)
		box.Overlap(scatter)
	}
	return box
}

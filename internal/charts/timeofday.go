package charts

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"bikepulse/internal/analytics"
)

// TimeOfDayCharts draws one horizontal bar per bucket present, Morning on top.
func TimeOfDayCharts(b *analytics.TimeOfDayBreakdown, style Style) []components.Charter {
	title := opts.Title{Title: "Total Bike Rentals by Time of Day"}
	if len(b.Buckets) > 0 {
		peak := b.Peak()
		title.Subtitle = fmt.Sprintf("Busiest: %s with %s rentals", peak.Label, FormatThousands(peak.Total))
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: style.Width, Height: style.Height}),
		charts.WithTitleOpts(title),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Total Rentals", Type: "value", AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Formatter: thousandsAxis}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Time Period", Type: "category"}),
	)

	// A category y axis draws its first entry at the bottom.
	n := len(b.Buckets)
	labels := make([]string, n)
	data := make([]opts.BarData, n)
	for i, bt := range b.Buckets {
		j := n - 1 - i
		labels[j] = bt.Label
		data[j] = opts.BarData{
			Name:      bt.Label,
			Value:     bt.Total,
			ItemStyle: &opts.ItemStyle{Color: style.TimeOfDay[bt.Bucket]},
		}
	}

	bar.SetXAxis(labels).AddSeries("Total Rentals", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right", Formatter: thousandsLabel}),
	)
	bar.XYReversal()
	return []components.Charter{bar}
}

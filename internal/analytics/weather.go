package analytics

import (
	"sort"

	"bikepulse/internal/dataset"
	"bikepulse/pkg/contracts/domain"
)

// CategoryTotal is the rental sum for one weather category.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// WeatherSummary is the weather breakdown of one table.
type WeatherSummary struct {
	// Totals are sorted by total descending, ties by category name.
	Totals []CategoryTotal `json:"totals"`
	// Distributions follow the order in which categories first appear.
	Distributions []BoxStats `json:"distributions"`
}

// Empty reports whether the table contributed no rows.
func (s WeatherSummary) Empty() bool { return len(s.Totals) == 0 }

// WeatherComparison covers both granularities.
type WeatherComparison struct {
	Daily  WeatherSummary `json:"daily"`
	Hourly WeatherSummary `json:"hourly"`
}

type weatherRow struct {
	category string
	total    int64
}

// CompareWeather groups rentals by weather category for both tables.
func CompareWeather(daily dataset.DailyTable, hourly dataset.HourlyTable) (*WeatherComparison, error) {
	required := []string{domain.ColumnWeather, domain.ColumnTotalRentals}
	if missing := daily.Columns.Missing(required...); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	if missing := hourly.Columns.Missing(required...); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	dailyRows := make([]weatherRow, 0, len(daily.Rows))
	for _, r := range daily.Rows {
		dailyRows = append(dailyRows, weatherRow{category: r.Weather, total: r.TotalRentals})
	}
	hourlyRows := make([]weatherRow, 0, len(hourly.Rows))
	for _, r := range hourly.Rows {
		hourlyRows = append(hourlyRows, weatherRow{category: r.Weather, total: r.TotalRentals})
	}

	out := &WeatherComparison{
		Daily:  summarizeWeather(dailyRows),
		Hourly: summarizeWeather(hourlyRows),
	}
	// Rows without a category are skipped, so rows alone do not mean data.
	if out.Daily.Empty() && out.Hourly.Empty() {
		return nil, ErrNoData
	}
	return out, nil
}

func summarizeWeather(rows []weatherRow) WeatherSummary {
	var order []string
	values := make(map[string][]float64)
	totals := make(map[string]int64)

	for _, r := range rows {
		if r.category == "" {
			continue
		}
		if _, seen := values[r.category]; !seen {
			order = append(order, r.category)
		}
		values[r.category] = append(values[r.category], float64(r.total))
		totals[r.category] += r.total
	}

	summary := WeatherSummary{
		Totals:        make([]CategoryTotal, 0, len(order)),
		Distributions: make([]BoxStats, 0, len(order)),
	}
	for _, c := range order {
		summary.Totals = append(summary.Totals, CategoryTotal{Category: c, Total: totals[c]})
		summary.Distributions = append(summary.Distributions, NewBoxStats(c, values[c]))
	}

	sort.SliceStable(summary.Totals, func(i, j int) bool {
		if summary.Totals[i].Total != summary.Totals[j].Total {
			return summary.Totals[i].Total > summary.Totals[j].Total
		}
		return summary.Totals[i].Category < summary.Totals[j].Category
	})

	return summary
}

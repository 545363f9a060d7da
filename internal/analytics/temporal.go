package analytics

import (
	"sort"

	"bikepulse/internal/dataset"
	"bikepulse/pkg/contracts/domain"
)

// DayTypeTotal is the rental sum for workdays or holidays.
type DayTypeTotal struct {
	DayType domain.DayType `json:"day_type"`
	Total   int64          `json:"total"`
	// Percent is the share of all classified rentals, rounded to one decimal.
	Percent float64 `json:"percent"`
}

// WeekdayTotal is the rental sum for one weekday.
type WeekdayTotal struct {
	Index   int    `json:"index"`
	Weekday string `json:"weekday"`
	Total   int64  `json:"total"`
}

// HourlyPoint is the rental sum for one hour of one day type.
type HourlyPoint struct {
	Hour    int            `json:"hour"`
	DayType domain.DayType `json:"day_type"`
	Total   int64          `json:"total"`
}

// RushWindow is an hour range highlighted on the hourly chart.
type RushWindow struct {
	Name     string `json:"name"`
	FromHour int    `json:"from_hour"`
	ToHour   int    `json:"to_hour"`
}

// RushWindows are the commuter peaks.
var RushWindows = []RushWindow{
	{Name: "Morning rush", FromHour: 7, ToHour: 9},
	{Name: "Evening rush", FromHour: 16, ToHour: 18},
}

// TemporalPattern holds up to three sub-panels. Empty slices mean the
// sub-panel has nothing to show and is omitted.
type TemporalPattern struct {
	DayTypes []DayTypeTotal `json:"day_types"`
	Weekdays []WeekdayTotal `json:"weekdays"`
	Hourly   []HourlyPoint  `json:"hourly"`
	// Hours lists the distinct hours present, ascending.
	Hours []int `json:"hours"`
	// HourlyDayTypes lists the day types present in Hourly, in display order.
	HourlyDayTypes []domain.DayType `json:"hourly_day_types"`
	// Rush lists the rush windows that overlap an available hour.
	Rush []RushWindow `json:"rush_windows"`
}

// PanelCount is the number of non-empty sub-panels.
func (p *TemporalPattern) PanelCount() int {
	n := 0
	for _, size := range []int{len(p.DayTypes), len(p.Weekdays), len(p.Hourly)} {
		if size > 0 {
			n++
		}
	}
	return n
}

// SplitByDayType reports whether the hourly series should be drawn per day type.
func (p *TemporalPattern) SplitByDayType() bool {
	return len(p.HourlyDayTypes) > 1
}

// AnalyzeTemporal builds the working-day, weekday and hourly breakdowns.
// A sub-panel whose columns are absent is left empty.
func AnalyzeTemporal(daily dataset.DailyTable, hourly dataset.HourlyTable) (*TemporalPattern, error) {
	if len(daily.Rows) == 0 && len(hourly.Rows) == 0 {
		return nil, ErrNoData
	}

	p := &TemporalPattern{}
	var missing []string

	if cols := daily.Columns.Missing(domain.ColumnWorkingDay, domain.ColumnTotalRentals); len(cols) == 0 {
		p.DayTypes = dayTypeTotals(daily.Rows)
	} else {
		missing = append(missing, cols...)
	}

	if cols := daily.Columns.Missing(domain.ColumnWeekday, domain.ColumnTotalRentals); len(cols) == 0 {
		p.Weekdays = weekdayTotals(daily.Rows)
	} else {
		missing = append(missing, cols...)
	}

	if cols := hourly.Columns.Missing(domain.ColumnHour, domain.ColumnWorkingDay, domain.ColumnTotalRentals); len(cols) == 0 {
		p.Hourly, p.Hours, p.HourlyDayTypes = hourlyPoints(hourly.Rows)
		p.Rush = presentRushWindows(p.Hours)
	} else {
		missing = append(missing, cols...)
	}

	if p.PanelCount() == 0 {
		if len(missing) > 0 {
			return nil, &MissingColumnsError{Columns: dedupe(missing)}
		}
		return nil, ErrNoData
	}
	return p, nil
}

func dayTypeTotals(rows []domain.DailyRecord) []DayTypeTotal {
	sums := make(map[domain.DayType]int64)
	seen := make(map[domain.DayType]bool)
	var grand int64
	for _, r := range rows {
		dt, ok := domain.DayTypeFromFlag(r.WorkingDay)
		if !ok {
			continue
		}
		sums[dt] += r.TotalRentals
		seen[dt] = true
		grand += r.TotalRentals
	}

	var out []DayTypeTotal
	for _, dt := range domain.DayTypeOrder {
		if !seen[dt] {
			continue
		}
		pct := 0.0
		if grand > 0 {
			pct = roundTo(float64(sums[dt])/float64(grand)*100, 1)
		}
		out = append(out, DayTypeTotal{DayType: dt, Total: sums[dt], Percent: pct})
	}
	return out
}

func weekdayTotals(rows []domain.DailyRecord) []WeekdayTotal {
	var sums [7]int64
	var seen [7]bool
	for _, r := range rows {
		d, ok := domain.ParseWeekday(r.Weekday)
		if !ok {
			continue
		}
		i := domain.WeekdayIndex(d)
		sums[i] += r.TotalRentals
		seen[i] = true
	}

	var out []WeekdayTotal
	for i, d := range domain.WeekdayOrder {
		if seen[i] {
			out = append(out, WeekdayTotal{Index: i, Weekday: d.String(), Total: sums[i]})
		}
	}
	return out
}

func hourlyPoints(rows []domain.HourlyRecord) ([]HourlyPoint, []int, []domain.DayType) {
	type key struct {
		hour int
		dt   domain.DayType
	}
	sums := make(map[key]int64)
	hours := make(map[int]bool)
	types := make(map[domain.DayType]bool)

	for _, r := range rows {
		dt, ok := domain.DayTypeFromFlag(r.WorkingDay)
		if !ok {
			continue
		}
		sums[key{r.Hour, dt}] += r.TotalRentals
		hours[r.Hour] = true
		types[dt] = true
	}

	var hourList []int
	for h := range hours {
		hourList = append(hourList, h)
	}
	sort.Ints(hourList)

	var typeList []domain.DayType
	for _, dt := range domain.DayTypeOrder {
		if types[dt] {
			typeList = append(typeList, dt)
		}
	}

	var points []HourlyPoint
	for _, h := range hourList {
		for _, dt := range typeList {
			if total, ok := sums[key{h, dt}]; ok {
				points = append(points, HourlyPoint{Hour: h, DayType: dt, Total: total})
			}
		}
	}
	return points, hourList, typeList
}

func presentRushWindows(hours []int) []RushWindow {
	var out []RushWindow
	for _, w := range RushWindows {
		for _, h := range hours {
			if h >= w.FromHour && h <= w.ToHour {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

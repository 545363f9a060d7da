package analytics

import (
	"time"

	"bikepulse/internal/dataset"
	"bikepulse/pkg/contracts/domain"
)

var allDaily = dataset.ColumnSet{
	domain.ColumnDate: {}, domain.ColumnWeekday: {}, domain.ColumnWorkingDay: {},
	domain.ColumnWeather: {}, domain.ColumnTotalRentals: {},
}

var allHourly = dataset.ColumnSet{
	domain.ColumnDate: {}, domain.ColumnHour: {}, domain.ColumnWorkingDay: {},
	domain.ColumnWeather: {}, domain.ColumnTimeOfDay: {}, domain.ColumnTotalRentals: {},
}

var epoch = time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)

func dailyTable(rows ...domain.DailyRecord) dataset.DailyTable {
	return dataset.DailyTable{Columns: allDaily, Rows: rows}
}

func hourlyTable(rows ...domain.HourlyRecord) dataset.HourlyTable {
	return dataset.HourlyTable{Columns: allHourly, Rows: rows}
}

func without(cols dataset.ColumnSet, names ...string) dataset.ColumnSet {
	out := dataset.ColumnSet{}
	for k := range cols {
		out[k] = struct{}{}
	}
	for _, n := range names {
		delete(out, n)
	}
	return out
}

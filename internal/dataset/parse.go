package dataset

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"bikepulse/pkg/contracts/domain"
)

var dateLayouts = []string{
	domain.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/06",
}

// ParseDate accepts the calendar-date forms found in exported rental files,
// including Excel serial day numbers.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return domain.TruncateDay(t), nil
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return domain.TruncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", value)
}

// parseWhole parses a non-negative integer, tolerating integral floats such as "12.0".
func parseWhole(value string) (int64, error) {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative value %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not a whole number: %q", value)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative value %v", f)
	}
	return int64(f), nil
}

func columnSet(idx map[string]int) ColumnSet {
	cols := make(ColumnSet, len(idx))
	for name := range idx {
		cols[name] = struct{}{}
	}
	return cols
}

// parseDaily types the daily table. Only the date column is mandatory.
func parseDaily(path string, raw *rawTable) (DailyTable, error) {
	idx := raw.columnIndex()
	if _, ok := idx[domain.ColumnDate]; !ok {
		return DailyTable{}, &LoadError{Path: path, Err: fmt.Errorf("missing required column %q", domain.ColumnDate)}
	}

	table := DailyTable{
		Columns: columnSet(idx),
		Rows:    make([]domain.DailyRecord, 0, len(raw.rows)),
	}

	for i, row := range raw.rows {
		if blankRow(row) {
			continue
		}
		lineNo := i + 2

		var rec domain.DailyRecord
		dateValue, _ := cell(row, idx, domain.ColumnDate)
		date, err := ParseDate(dateValue)
		if err != nil {
			return DailyTable{}, &LoadError{Path: path, Row: lineNo, Err: err}
		}
		rec.Date = date
		rec.Weekday, _ = cell(row, idx, domain.ColumnWeekday)
		rec.WorkingDay, _ = cell(row, idx, domain.ColumnWorkingDay)
		rec.Weather, _ = cell(row, idx, domain.ColumnWeather)

		if v, ok := cell(row, idx, domain.ColumnTotalRentals); ok {
			if rec.TotalRentals, err = parseWhole(v); err != nil {
				return DailyTable{}, &LoadError{Path: path, Row: lineNo, Err: fmt.Errorf("%s: %w", domain.ColumnTotalRentals, err)}
			}
		}

		table.Rows = append(table.Rows, rec)
	}

	return table, nil
}

// parseHourly types the hourly table. Only the date column is mandatory.
func parseHourly(path string, raw *rawTable) (HourlyTable, error) {
	idx := raw.columnIndex()
	if _, ok := idx[domain.ColumnDate]; !ok {
		return HourlyTable{}, &LoadError{Path: path, Err: fmt.Errorf("missing required column %q", domain.ColumnDate)}
	}

	table := HourlyTable{
		Columns: columnSet(idx),
		Rows:    make([]domain.HourlyRecord, 0, len(raw.rows)),
	}

	for i, row := range raw.rows {
		if blankRow(row) {
			continue
		}
		lineNo := i + 2

		var rec domain.HourlyRecord
		dateValue, _ := cell(row, idx, domain.ColumnDate)
		date, err := ParseDate(dateValue)
		if err != nil {
			return HourlyTable{}, &LoadError{Path: path, Row: lineNo, Err: err}
		}
		rec.Date = date

		if v, ok := cell(row, idx, domain.ColumnHour); ok {
			hour, err := parseWhole(v)
			if err != nil || hour > 23 {
				return HourlyTable{}, &LoadError{Path: path, Row: lineNo, Err: fmt.Errorf("hour out of range 0-23: %q", v)}
			}
			rec.Hour = int(hour)
		}

		rec.WorkingDay, _ = cell(row, idx, domain.ColumnWorkingDay)
		rec.Weather, _ = cell(row, idx, domain.ColumnWeather)
		rec.TimeOfDay, _ = cell(row, idx, domain.ColumnTimeOfDay)

		if v, ok := cell(row, idx, domain.ColumnTotalRentals); ok {
			if rec.TotalRentals, err = parseWhole(v); err != nil {
				return HourlyTable{}, &LoadError{Path: path, Row: lineNo, Err: fmt.Errorf("%s: %w", domain.ColumnTotalRentals, err)}
			}
		}

		table.Rows = append(table.Rows, rec)
	}

	return table, nil
}

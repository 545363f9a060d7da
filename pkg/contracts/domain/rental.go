package domain

import (
	"fmt"
	"strings"
	"time"
)

// Column names shared by the daily and hourly rental files.
const (
	ColumnDate         = "dteday"
	ColumnWeekday      = "weekday"
	ColumnWorkingDay   = "workingday"
	ColumnWeather      = "weathersit"
	ColumnHour         = "hour"
	ColumnTimeOfDay    = "time_of_day"
	ColumnTotalRentals = "total_rentals"
)

// DateLayout is the canonical calendar-date layout used in files and URLs.
const DateLayout = "2006-01-02"

// WorkingDay flag values as they appear in the source files.
const (
	WorkingDayYes = "Yes"
	WorkingDayNo  = "No"
)

// DayType is the display label derived from the working-day flag.
type DayType string

const (
	DayTypeWorkday DayType = "Workday"
	DayTypeHoliday DayType = "Holiday"
)

// DayTypeOrder is the display order of day types.
var DayTypeOrder = []DayType{DayTypeWorkday, DayTypeHoliday}

// DayTypeFromFlag maps a working-day flag to its day type.
func DayTypeFromFlag(flag string) (DayType, bool) {
	switch strings.TrimSpace(flag) {
	case WorkingDayYes:
		return DayTypeWorkday, true
	case WorkingDayNo:
		return DayTypeHoliday, true
	default:
		return "", false
	}
}

// TimeOfDay is one of the four six-hour buckets of the day.
type TimeOfDay string

const (
	Morning   TimeOfDay = "Morning"
	Afternoon TimeOfDay = "Afternoon"
	Evening   TimeOfDay = "Evening"
	Night     TimeOfDay = "Night"
)

// TimeOfDayOrder is the fixed display order of time-of-day buckets.
var TimeOfDayOrder = []TimeOfDay{Morning, Afternoon, Evening, Night}

var timeOfDayLabels = map[TimeOfDay]string{
	Morning:   "Morning (06:00-12:00)",
	Afternoon: "Afternoon (12:00-18:00)",
	Evening:   "Evening (18:00-00:00)",
	Night:     "Night (00:00-06:00)",
}

// Label returns the bucket name with its hour range.
func (t TimeOfDay) Label() string {
	if label, ok := timeOfDayLabels[t]; ok {
		return label
	}
	return string(t)
}

// Valid reports whether t is one of the four known buckets.
func (t TimeOfDay) Valid() bool {
	_, ok := timeOfDayLabels[t]
	return ok
}

// BucketForHour returns the time-of-day bucket an hour belongs to.
func BucketForHour(hour int) (TimeOfDay, error) {
	switch {
	case hour < 0 || hour > 23:
		return "", fmt.Errorf("hour %d out of range 0-23", hour)
	case hour < 6:
		return Night, nil
	case hour < 12:
		return Morning, nil
	case hour < 18:
		return Afternoon, nil
	default:
		return Evening, nil
	}
}

// WeekdayOrder lists weekdays Monday first.
var WeekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// WeekdayIndex returns the Monday-based index (Monday=0 ... Sunday=6).
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// ParseWeekday resolves an English weekday name such as "Monday".
func ParseWeekday(name string) (time.Weekday, bool) {
	name = strings.TrimSpace(name)
	for _, d := range WeekdayOrder {
		if strings.EqualFold(d.String(), name) {
			return d, true
		}
	}
	return 0, false
}

// DailyRecord is one row of the daily rental table.
type DailyRecord struct {
	Date         time.Time `json:"date"`
	Weekday      string    `json:"weekday,omitempty"`
	WorkingDay   string    `json:"workingday,omitempty"`
	Weather      string    `json:"weathersit,omitempty"`
	TotalRentals int64     `json:"total_rentals"`
}

// HourlyRecord is one row of the hourly rental table.
type HourlyRecord struct {
	Date         time.Time `json:"date"`
	Hour         int       `json:"hour"`
	WorkingDay   string    `json:"workingday,omitempty"`
	Weather      string    `json:"weathersit,omitempty"`
	TimeOfDay    string    `json:"time_of_day,omitempty"`
	TotalRentals int64     `json:"total_rentals"`
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether the range is non-empty.
func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// Contains reports whether t falls on a date within the range, both ends included.
func (r DateRange) Contains(t time.Time) bool {
	d := TruncateDay(t)
	return !d.Before(TruncateDay(r.Start)) && !d.After(TruncateDay(r.End))
}

// Clamp limits r to the given bounds. An end before the clamped start is raised to it.
func (r DateRange) Clamp(bounds DateRange) DateRange {
	out := r
	if out.Start.Before(bounds.Start) || out.Start.After(bounds.End) {
		if out.Start.After(bounds.End) {
			out.Start = bounds.End
		} else {
			out.Start = bounds.Start
		}
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	if out.End.Before(out.Start) {
		out.End = out.Start
	}
	return out
}

// String formats the range as "start..end".
func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// TruncateDay drops the clock part of t, keeping its calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

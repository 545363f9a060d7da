package dataset

import (
	"sort"
	"time"

	"bikepulse/pkg/contracts/domain"
)

// ColumnSet records which columns a source file declared.
type ColumnSet map[string]struct{}

// Has reports whether every named column is present.
func (c ColumnSet) Has(names ...string) bool {
	return len(c.Missing(names...)) == 0
}

// Missing returns the named columns that are absent, in argument order.
func (c ColumnSet) Missing(names ...string) []string {
	var missing []string
	for _, name := range names {
		if _, ok := c[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Names lists the columns in sorted order.
func (c ColumnSet) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DailyTable holds one row per calendar date.
type DailyTable struct {
	Columns ColumnSet
	Rows    []domain.DailyRecord
}

// HourlyTable holds one row per date and hour.
type HourlyTable struct {
	Columns ColumnSet
	Rows    []domain.HourlyRecord
}

// SourceInfo identifies the file a table was read from.
type SourceInfo struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Tables is an immutable pair of loaded tables. Filtering returns a new value.
type Tables struct {
	Daily       DailyTable
	Hourly      HourlyTable
	Fingerprint string
	LoadedAt    time.Time
	Sources     []SourceInfo
}

// Bounds returns the earliest and latest date in the daily table, falling
// back to the hourly table when the daily one is empty.
func (t *Tables) Bounds() (domain.DateRange, error) {
	var first, last time.Time
	seen := false
	visit := func(d time.Time) {
		if !seen || d.Before(first) {
			first = d
		}
		if !seen || d.After(last) {
			last = d
		}
		seen = true
	}

	for _, r := range t.Daily.Rows {
		visit(r.Date)
	}
	if !seen {
		for _, r := range t.Hourly.Rows {
			visit(r.Date)
		}
	}
	if !seen {
		return domain.DateRange{}, ErrEmptyDataset
	}
	return domain.DateRange{Start: first, End: last}, nil
}

// Filter returns the rows whose date lies within r, both ends included.
// Column sets are carried over unchanged.
func (t *Tables) Filter(r domain.DateRange) *Tables {
	out := &Tables{
		Daily:       DailyTable{Columns: t.Daily.Columns},
		Hourly:      HourlyTable{Columns: t.Hourly.Columns},
		Fingerprint: t.Fingerprint,
		LoadedAt:    t.LoadedAt,
		Sources:     t.Sources,
	}
	for _, row := range t.Daily.Rows {
		if r.Contains(row.Date) {
			out.Daily.Rows = append(out.Daily.Rows, row)
		}
	}
	for _, row := range t.Hourly.Rows {
		if r.Contains(row.Date) {
			out.Hourly.Rows = append(out.Hourly.Rows, row)
		}
	}
	return out
}

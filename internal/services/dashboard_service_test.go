package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikepulse/internal/analytics"
	"bikepulse/internal/charts"
	"bikepulse/internal/dataset"
	"bikepulse/pkg/contracts/domain"
)

type fakeSource struct {
	tables      *dataset.Tables
	err         error
	invalidated int
}

func (f *fakeSource) Load(ctx context.Context) (*dataset.Tables, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tables, nil
}

func (f *fakeSource) Invalidate() { f.invalidated++ }

var (
	dailyColumns = dataset.ColumnSet{
		domain.ColumnDate: {}, domain.ColumnWeekday: {}, domain.ColumnWorkingDay: {},
		domain.ColumnWeather: {}, domain.ColumnTotalRentals: {},
	}
	hourlyColumns = dataset.ColumnSet{
		domain.ColumnDate: {}, domain.ColumnHour: {}, domain.ColumnWorkingDay: {},
		domain.ColumnWeather: {}, domain.ColumnTimeOfDay: {}, domain.ColumnTotalRentals: {},
	}
)

func day(d int) time.Time {
	return time.Date(2011, time.January, d, 0, 0, 0, 0, time.UTC)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sampleTables holds a Monday workday and a Saturday holiday.
func sampleTables() *dataset.Tables {
	return &dataset.Tables{
		Daily: dataset.DailyTable{Columns: dailyColumns, Rows: []domain.DailyRecord{
			{Date: day(3), Weekday: "Monday", WorkingDay: "Yes", Weather: "Clear", TotalRentals: 100},
			{Date: day(8), Weekday: "Saturday", WorkingDay: "No", Weather: "Clear", TotalRentals: 40},
		}},
		Hourly: dataset.HourlyTable{Columns: hourlyColumns, Rows: []domain.HourlyRecord{
			{Date: day(3), Hour: 7, WorkingDay: "Yes", Weather: "Clear", TimeOfDay: "Morning", TotalRentals: 10},
			{Date: day(8), Hour: 20, WorkingDay: "No", Weather: "Clear", TimeOfDay: "Evening", TotalRentals: 5},
		}},
		Fingerprint: "abc123",
	}
}

func newTestService(src *fakeSource) *DashboardService {
	return NewDashboardService(src, charts.DefaultStyle(), nil, quietLogger())
}

func TestBuildReport(t *testing.T) {
	svc := newTestService(&fakeSource{tables: sampleTables()})

	report, err := svc.BuildReport(context.Background(), dataset.RangeRequest{})
	require.NoError(t, err)

	assert.Equal(t, "abc123", report.Fingerprint)
	assert.Equal(t, day(3), report.Range.Start)
	assert.Equal(t, day(8), report.Range.End)

	require.True(t, report.Temporal.OK())
	assert.Equal(t, []analytics.DayTypeTotal{
		{DayType: domain.DayTypeWorkday, Total: 100, Percent: 71.4},
		{DayType: domain.DayTypeHoliday, Total: 40, Percent: 28.6},
	}, report.Temporal.Data.DayTypes)

	require.True(t, report.TimeOfDay.OK())
	require.Len(t, report.TimeOfDay.Data.Buckets, 2)
	assert.Equal(t, domain.Morning, report.TimeOfDay.Data.Buckets[0].Bucket)
	assert.Equal(t, int64(10), report.TimeOfDay.Data.Buckets[0].Total)
	assert.Equal(t, domain.Evening, report.TimeOfDay.Data.Buckets[1].Bucket)

	require.True(t, report.Weather.OK())
	assert.Equal(t, int64(140), report.Weather.Data.Daily.Totals[0].Total)
}

func TestBuildReportFiltersRange(t *testing.T) {
	svc := newTestService(&fakeSource{tables: sampleTables()})

	report, err := svc.BuildReport(context.Background(), dataset.RangeRequest{Start: day(8), End: day(8)})
	require.NoError(t, err)

	require.True(t, report.Temporal.OK())
	assert.Equal(t, []analytics.DayTypeTotal{{DayType: domain.DayTypeHoliday, Total: 40, Percent: 100}}, report.Temporal.Data.DayTypes)
	require.True(t, report.TimeOfDay.OK())
	assert.Len(t, report.TimeOfDay.Data.Buckets, 1)
}

func TestBuildReportEmptyIntervalDegrades(t *testing.T) {
	svc := newTestService(&fakeSource{tables: sampleTables()})

	// Jan 4..7 lies inside the bounds but holds no rows.
	report, err := svc.BuildReport(context.Background(), dataset.RangeRequest{Start: day(4), End: day(7)})
	require.NoError(t, err)

	for _, status := range []PanelStatus{report.Weather.Status, report.Temporal.Status, report.TimeOfDay.Status} {
		assert.Equal(t, PanelPlaceholder, status)
	}
	assert.Equal(t, analytics.PlaceholderMessage(analytics.ErrNoData), report.TimeOfDay.Message)
}

func TestBuildReportErrors(t *testing.T) {
	loadErr := &dataset.LoadError{Path: "day.csv", Err: errors.New("boom")}

	tests := []struct {
		name    string
		source  *fakeSource
		req     dataset.RangeRequest
		wantErr []error
	}{
		{
			name:    "load failure",
			source:  &fakeSource{err: loadErr},
			wantErr: []error{ErrReportUnavailable, dataset.ErrDataUnavailable},
		},
		{
			name:    "start after end",
			source:  &fakeSource{tables: sampleTables()},
			req:     dataset.RangeRequest{Start: day(8), End: day(3)},
			wantErr: []error{dataset.ErrInvalidRange},
		},
		{
			name:    "strict out of bounds",
			source:  &fakeSource{tables: sampleTables()},
			req:     dataset.RangeRequest{Start: day(1), Strict: true},
			wantErr: []error{dataset.ErrInvalidRange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService(tt.source).BuildReport(context.Background(), tt.req)
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestBuildReportMissingTimeOfDayColumn(t *testing.T) {
	tables := sampleTables()
	tables.Hourly.Columns = dataset.ColumnSet{
		domain.ColumnDate: {}, domain.ColumnHour: {}, domain.ColumnWorkingDay: {},
		domain.ColumnWeather: {}, domain.ColumnTotalRentals: {},
	}
	svc := newTestService(&fakeSource{tables: tables})

	report, err := svc.BuildReport(context.Background(), dataset.RangeRequest{})
	require.NoError(t, err)
	assert.Equal(t, PanelPlaceholder, report.TimeOfDay.Status)
	assert.Contains(t, report.TimeOfDay.Message, domain.ColumnTimeOfDay)
	assert.Equal(t, PanelOK, report.Weather.Status, "other panels are unaffected")
}

func TestRunPanel(t *testing.T) {
	logger := quietLogger()
	ctx := context.Background()

	ok := runPanel(ctx, logger, nil, "test", func() (*int, error) {
		v := 1
		return &v, nil
	})
	assert.Equal(t, PanelOK, ok.Status)

	degenerate := runPanel(ctx, logger, nil, "test", func() (*int, error) {
		return nil, analytics.ErrNoValidBucket
	})
	assert.Equal(t, PanelPlaceholder, degenerate.Status)

	failed := runPanel(ctx, logger, nil, "test", func() (*int, error) {
		return nil, errors.New("disk on fire")
	})
	assert.Equal(t, PanelError, failed.Status)
	assert.Contains(t, failed.Message, "disk on fire")

	panicked := runPanel(ctx, logger, nil, "test", func() (*int, error) {
		var m map[string]int
		m["x"] = 1
		return nil, nil
	})
	assert.Equal(t, PanelError, panicked.Status)
	assert.Nil(t, panicked.Data)
}

func TestLenientRange(t *testing.T) {
	bounds := domain.DateRange{Start: day(3), End: day(8)}

	tests := []struct {
		name string
		req  dataset.RangeRequest
		want domain.DateRange
	}{
		{"defaults", dataset.RangeRequest{}, bounds},
		{"clamped", dataset.RangeRequest{Start: day(1), End: day(20)}, bounds},
		{"end before start", dataset.RangeRequest{Start: day(6), End: day(4)}, domain.DateRange{Start: day(6), End: day(6)}},
		{"strict ignored", dataset.RangeRequest{Start: day(1), Strict: true}, bounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lenientRange(tt.req, bounds))
		})
	}
}

func TestRenderPanel(t *testing.T) {
	tables := sampleTables()
	tables.Hourly.Columns = dataset.ColumnSet{
		domain.ColumnDate: {}, domain.ColumnHour: {}, domain.ColumnWorkingDay: {},
		domain.ColumnWeather: {}, domain.ColumnTotalRentals: {},
	}
	svc := newTestService(&fakeSource{tables: tables})
	ctx := context.Background()

	page, err := svc.RenderPanel(ctx, PanelWeather, dataset.RangeRequest{})
	require.NoError(t, err)
	assert.Contains(t, string(page), "Total Rentals per Weather Condition (Day)")

	page, err = svc.RenderPanel(ctx, PanelTimeOfDay, dataset.RangeRequest{})
	require.NoError(t, err)
	assert.Contains(t, string(page), "Data is missing required columns")

	page, err = svc.RenderPanel(ctx, PanelTemporal, dataset.RangeRequest{})
	require.NoError(t, err)
	assert.Contains(t, string(page), charts.TemporalCaption)

	_, err = svc.RenderPanel(ctx, "nope", dataset.RangeRequest{})
	assert.ErrorIs(t, err, ErrUnknownPanel)
}

func TestRenderPanelLoadFailure(t *testing.T) {
	svc := newTestService(&fakeSource{err: &dataset.LoadError{Path: "day.csv", Err: errors.New("missing")}})
	_, err := svc.RenderPanel(context.Background(), PanelTemporal, dataset.RangeRequest{})
	assert.ErrorIs(t, err, dataset.ErrDataUnavailable)
}

func TestState(t *testing.T) {
	svc := newTestService(&fakeSource{tables: sampleTables()})
	st := svc.State(context.Background(), dataset.RangeRequest{Start: day(5)})
	assert.True(t, st.Available())
	assert.Equal(t, domain.DateRange{Start: day(3), End: day(8)}, st.Bounds)
	assert.Equal(t, domain.DateRange{Start: day(5), End: day(8)}, st.Range)
	assert.Equal(t, 3, st.TemporalCharts)

	noHours := sampleTables()
	noHours.Hourly.Columns = dataset.ColumnSet{domain.ColumnDate: {}, domain.ColumnTotalRentals: {}}
	st = newTestService(&fakeSource{tables: noHours}).State(context.Background(), dataset.RangeRequest{})
	assert.Equal(t, 2, st.TemporalCharts)

	failing := newTestService(&fakeSource{err: &dataset.LoadError{Path: "hour.csv", Err: errors.New("bad header")}})
	st = failing.State(context.Background(), dataset.RangeRequest{})
	assert.False(t, st.Available())
	assert.Contains(t, st.LoadError, "bad header")
}

func TestExport(t *testing.T) {
	svc := newTestService(&fakeSource{tables: sampleTables()})

	file, err := svc.Export(context.Background(), dataset.RangeRequest{}, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "bikepulse_report_2011-01-03_2011-01-08.csv", file.Name)
	assert.True(t, bytes.HasPrefix(file.Data, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, string(file.Data), "day_type_totals,Workday,percent,71.4")

	file, err = svc.Export(context.Background(), dataset.RangeRequest{}, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, xlsxContentType, file.ContentType)
	assert.NotEmpty(t, file.Data)

	_, err = svc.Export(context.Background(), dataset.RangeRequest{}, "pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReload(t *testing.T) {
	src := &fakeSource{tables: sampleTables()}
	info, err := newTestService(src).Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.invalidated)
	assert.Equal(t, 2, info.DailyRows)
	assert.Equal(t, "abc123", info.Fingerprint)
	assert.False(t, info.Empty)
}

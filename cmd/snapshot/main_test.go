package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantStart time.Time
		wantEnd   time.Time
		wantErr   string
	}{
		{name: "open range"},
		{
			name:      "both bounds",
			start:     "2011-03-01",
			end:       "2011-03-31",
			wantStart: time.Date(2011, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2011, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		{name: "bad start", start: "03/01/2011", wantErr: "invalid -start"},
		{name: "bad end", end: "2011-02-30", wantErr: "invalid -end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := parseRequest(tt.start, tt.end)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(req.Start))
			assert.True(t, tt.wantEnd.Equal(req.End))
		})
	}
}

func TestDateOrAll(t *testing.T) {
	assert.Equal(t, "all", dateOrAll(time.Time{}))
	assert.Equal(t, "2011-07-04", dateOrAll(time.Date(2011, 7, 4, 0, 0, 0, 0, time.UTC)))
}

func TestRunWritesExports(t *testing.T) {
	dir := t.TempDir()
	daily := filepath.Join(dir, "day.csv")
	hourly := filepath.Join(dir, "hour.csv")
	require.NoError(t, os.WriteFile(daily, []byte(`dteday,weekday,workingday,weathersit,total_rentals
2011-01-01,Saturday,No,Misty,985
2011-01-03,Monday,Yes,Clear,1349
`), 0o644))
	require.NoError(t, os.WriteFile(hourly, []byte(`dteday,hour,workingday,weathersit,time_of_day,total_rentals
2011-01-01,8,No,Misty,Morning,3
2011-01-03,17,Yes,Clear,Afternoon,240
`), 0o644))

	t.Setenv("BIKEPULSE_DATA_DAILY_PATH", daily)
	t.Setenv("BIKEPULSE_DATA_HOURLY_PATH", hourly)
	t.Setenv("BIKEPULSE_LOGGING_LEVEL", "error")

	out := filepath.Join(dir, "out")
	err := run(context.Background(), options{start: "2011-01-01", end: "2011-01-03", outDir: out, formats: "csv, xlsx"})
	require.NoError(t, err)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"bikepulse_report_2011-01-01_2011-01-03.csv",
		"bikepulse_report_2011-01-01_2011-01-03.xlsx",
	}, names)

	csvData, err := os.ReadFile(filepath.Join(out, names[0]))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(csvData), "Misty"))
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BIKEPULSE_DATA_DAILY_PATH", filepath.Join(dir, "day.csv"))
	t.Setenv("BIKEPULSE_DATA_HOURLY_PATH", filepath.Join(dir, "hour.csv"))
	t.Setenv("BIKEPULSE_LOGGING_LEVEL", "error")

	err := run(context.Background(), options{outDir: filepath.Join(dir, "out"), formats: "pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// DailyCSV is a four-day daily table covering both day types and three weather kinds.
const DailyCSV = `dteday,weekday,workingday,weathersit,total_rentals
2011-01-01,Saturday,No,Misty,985
2011-01-02,Sunday,No,Clear,801
2011-01-03,Monday,Yes,Clear,1349
2011-01-04,Tuesday,Yes,Light Rain,1562
`

// HourlyCSV matches DailyCSV and hits every time-of-day bucket.
const HourlyCSV = `dteday,hour,workingday,weathersit,time_of_day,total_rentals
2011-01-01,0,No,Clear,Night,16
2011-01-01,8,No,Misty,Morning,3
2011-01-03,8,Yes,Clear,Morning,120
2011-01-03,17,Yes,Clear,Afternoon,240
2011-01-04,19,Yes,Light Rain,Evening,90
`

// WriteRentalFixtures writes DailyCSV and HourlyCSV into dir and returns their paths.
func WriteRentalFixtures(t *testing.T, dir string) (daily, hourly string) {
	t.Helper()
	daily = WriteFile(t, dir, "day.csv", DailyCSV)
	hourly = WriteFile(t, dir, "hour.csv", HourlyCSV)
	return daily, hourly
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

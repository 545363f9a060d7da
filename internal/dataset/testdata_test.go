package dataset

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const dailyCSV = `dteday,weekday,workingday,weathersit,total_rentals
2011-01-01,Saturday,No,Misty,985
2011-01-02,Sunday,No,Clear,801
2011-01-03,Monday,Yes,Clear,1349
2011-01-04,Tuesday,Yes,Light Rain,1562
`

const hourlyCSV = `dteday,hour,workingday,weathersit,time_of_day,total_rentals
2011-01-01,0,No,Clear,Night,16
2011-01-01,8,No,Misty,Morning,3
2011-01-03,8,Yes,Clear,Morning,120
2011-01-03,17,Yes,Clear,Afternoon,240
2011-01-04,19,Yes,Light Rain,Evening,90
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

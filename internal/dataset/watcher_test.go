package dataset

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherCheck(t *testing.T) {
	dir := t.TempDir()
	hourlyPath := writeFile(t, dir, "hour.csv", hourlyCSV)
	loader := NewLoader(writeFile(t, dir, "day.csv", dailyCSV), hourlyPath, testLogger())

	_, err := loader.Load(context.Background())
	require.NoError(t, err)

	w := NewWatcher(loader, time.Minute, testLogger())
	var reloaded []*Tables
	w.OnReload(func(ctx context.Context, tables *Tables, err error) {
		assert.NoError(t, err)
		reloaded = append(reloaded, tables)
	})

	assert.False(t, w.Check(context.Background()))
	assert.Empty(t, reloaded)

	require.NoError(t, os.WriteFile(hourlyPath, []byte(hourlyCSV+"2011-01-04,20,Yes,Clear,Evening,5\n"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(hourlyPath, future, future))

	assert.True(t, w.Check(context.Background()))
	require.Len(t, reloaded, 1)
	assert.Len(t, reloaded[0].Hourly.Rows, 6)
}

func TestWatcherRunDisabled(t *testing.T) {
	w := NewWatcher(NewLoader("a.csv", "b.csv", testLogger()), 0, testLogger())
	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately when the interval is zero")
	}
}

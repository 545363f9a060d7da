package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"bikepulse/internal/infrastructure"
)

var tracer = otel.Tracer("bikepulse/dataset")

// Loader reads the daily and hourly tables and caches the result until either
// file changes on disk. A failed load is cached the same way, so a broken file
// is not re-parsed on every request. Cancellations are never cached.
type Loader struct {
	dailyPath  string
	hourlyPath string
	logger     *slog.Logger
	metrics    *infrastructure.DashboardMetrics
	now        func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	key     string
	tables  *Tables
	lastErr error
	stats   CacheStats
}

// CacheStats reports loader activity.
type CacheStats struct {
	Hits      int64     `json:"hits"`
	Misses    int64     `json:"misses"`
	Loads     int64     `json:"loads"`
	LastLoad  time.Time `json:"last_load,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithMetrics records cache and load metrics.
func WithMetrics(m *infrastructure.DashboardMetrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// WithClock overrides the clock used for LoadedAt.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

// NewLoader creates a loader for the two table files.
func NewLoader(dailyPath, hourlyPath string, logger *slog.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		dailyPath:  dailyPath,
		hourlyPath: hourlyPath,
		logger:     logger.With(slog.String("component", "dataset_loader")),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the cached tables, reading them if the files changed since the
// last call. Repeated calls with unchanged files return the same *Tables.
func (l *Loader) Load(ctx context.Context) (*Tables, error) {
	key := l.identityKey()

	l.mu.Lock()
	if key == l.key && (l.tables != nil || l.lastErr != nil) {
		l.stats.Hits++
		tables, err := l.tables, l.lastErr
		l.mu.Unlock()
		infrastructure.RecordDatasetCache(ctx, l.metrics, true)
		return tables, err
	}
	l.stats.Misses++
	l.mu.Unlock()
	infrastructure.RecordDatasetCache(ctx, l.metrics, false)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The read is shared by every caller joined on key, so one caller going
	// away must not fail the others.
	readCtx := context.WithoutCancel(ctx)
	v, err, shared := l.group.Do(key, func() (interface{}, error) {
		tables, err := l.read(readCtx)
		if isContextErr(err) {
			return nil, err
		}

		l.mu.Lock()
		l.key = key
		l.tables = tables
		l.lastErr = err
		l.stats.Loads++
		l.stats.LastLoad = l.now()
		l.stats.LastError = ""
		if err != nil {
			l.stats.LastError = err.Error()
		}
		l.mu.Unlock()

		return tables, err
	})
	if shared {
		l.logger.DebugContext(ctx, "joined in-flight dataset load")
	}
	if err != nil {
		return nil, err
	}
	return v.(*Tables), nil
}

// Invalidate drops the cached result so the next Load reads from disk.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.key = ""
	l.tables = nil
	l.lastErr = nil
}

// Changed reports whether either file differs from what the cache holds.
func (l *Loader) Changed() bool {
	key := l.identityKey()
	l.mu.RLock()
	defer l.mu.RUnlock()
	return key != l.key
}

// Stats returns a snapshot of loader counters.
func (l *Loader) Stats() CacheStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

func (l *Loader) read(ctx context.Context) (*Tables, error) {
	ctx, span := tracer.Start(ctx, "dataset.Load")
	defer span.End()
	start := time.Now()

	var (
		daily  DailyTable
		hourly HourlyTable
		infos  [2]SourceInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, info, err := readSource(gctx, l.dailyPath)
		if err != nil {
			return err
		}
		infos[0] = info
		daily, err = parseDaily(l.dailyPath, raw)
		return err
	})
	g.Go(func() error {
		raw, info, err := readSource(gctx, l.hourlyPath)
		if err != nil {
			return err
		}
		infos[1] = info
		hourly, err = parseHourly(l.hourlyPath, raw)
		return err
	})

	err := g.Wait()
	infrastructure.RecordDatasetLoad(ctx, l.metrics, time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		l.logger.ErrorContext(ctx, "failed to load rental data",
			slog.String("daily_path", l.dailyPath),
			slog.String("hourly_path", l.hourlyPath),
			slog.String("error", err.Error()))
		return nil, err
	}

	sources := infos[:]
	tables := &Tables{
		Daily:       daily,
		Hourly:      hourly,
		Fingerprint: fingerprint(sources, len(daily.Rows), len(hourly.Rows)),
		LoadedAt:    l.now(),
		Sources:     sources,
	}

	span.SetAttributes(
		attribute.Int("dataset.daily_rows", len(daily.Rows)),
		attribute.Int("dataset.hourly_rows", len(hourly.Rows)),
	)
	l.logger.InfoContext(ctx, "rental data loaded",
		slog.Int("daily_rows", len(daily.Rows)),
		slog.Int("hourly_rows", len(hourly.Rows)),
		slog.String("fingerprint", tables.Fingerprint),
		slog.Duration("duration", time.Since(start)))

	return tables, nil
}

func readSource(ctx context.Context, path string) (*rawTable, SourceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, SourceInfo{}, err
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, SourceInfo{}, &LoadError{Path: path, Err: err}
	}
	info := SourceInfo{Path: path, Size: st.Size(), ModTime: st.ModTime()}

	raw, err := readTable(path)
	if err != nil {
		return nil, info, &LoadError{Path: path, Err: err}
	}
	return raw, info, nil
}

// isContextErr reports whether err is a cancellation rather than a problem
// with the files. Such errors are never cached.
func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// identityKey captures path, size and mtime of both files. Missing files
// contribute a marker so their later appearance changes the key.
func (l *Loader) identityKey() string {
	var b strings.Builder
	for _, path := range []string{l.dailyPath, l.hourlyPath} {
		b.WriteString(path)
		st, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			b.WriteString("|missing;")
		case err != nil:
			b.WriteString("|error;")
		default:
			fmt.Fprintf(&b, "|%d|%d;", st.Size(), st.ModTime().UnixNano())
		}
	}
	return b.String()
}

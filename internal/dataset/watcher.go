package dataset

import (
	"context"
	"log/slog"
	"time"

	"bikepulse/internal/infrastructure"
)

// ReloadFunc is told about every reload the watcher performs. err is non-nil
// when the changed files failed to load.
type ReloadFunc func(ctx context.Context, tables *Tables, err error)

// Watcher polls the loader's files and reloads them when they change.
type Watcher struct {
	loader   *Loader
	interval time.Duration
	logger   *slog.Logger
	onReload []ReloadFunc
}

// NewWatcher creates a watcher polling every interval.
func NewWatcher(loader *Loader, interval time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{
		loader:   loader,
		interval: interval,
		logger:   logger.With(slog.String("component", "dataset_watcher")),
	}
}

// OnReload registers fn to run after each reload.
func (w *Watcher) OnReload(fn ReloadFunc) {
	w.onReload = append(w.onReload, fn)
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.InfoContext(ctx, "watching rental data files", slog.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Check reloads once if the files changed and reports whether it did.
func (w *Watcher) Check(ctx context.Context) bool {
	if !w.loader.Changed() {
		return false
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	w.logger.InfoContext(ctx, "rental data changed on disk, reloading")

	w.loader.Invalidate()
	tables, err := w.loader.Load(ctx)
	for _, fn := range w.onReload {
		fn(ctx, tables, err)
	}
	return true
}

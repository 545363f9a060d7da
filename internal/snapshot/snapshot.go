// Package snapshot captures rendered dashboard pages as PNG images with a
// headless Chrome driven through chromedp.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"bikepulse/internal/config"
)

// ErrCaptureFailed wraps every browser failure.
var ErrCaptureFailed = errors.New("snapshot capture failed")

// Capturer takes full-page screenshots. Each capture starts its own browser.
type Capturer struct {
	cfg    config.SnapshotConfig
	logger *slog.Logger
}

// NewCapturer creates a capturer with the given browser settings.
func NewCapturer(cfg config.SnapshotConfig, logger *slog.Logger) *Capturer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Capturer{cfg: cfg, logger: logger.With(slog.String("component", "snapshot"))}
}

// Capture loads url, waits for the page to settle and returns a PNG of the
// whole page.
func (c *Capturer) Capture(ctx context.Context, url string) ([]byte, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		c.logger.Debug(fmt.Sprintf(format, args...))
	}))
	defer cancelBrowser()

	start := time.Now()
	var png []byte
	err := chromedp.Run(browserCtx,
		c.timed("navigate", chromedp.Navigate(url)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(c.cfg.SettleDelay),
		c.timed("screenshot", chromedp.FullScreenshot(&png, 100)),
	)
	if err != nil {
		c.logger.ErrorContext(ctx, "snapshot failed",
			slog.String("url", url),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}

	c.logger.InfoContext(ctx, "snapshot captured",
		slog.String("url", url),
		slog.Int("bytes", len(png)),
		slog.Duration("duration", time.Since(start)))
	return png, nil
}

func (c *Capturer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.DisableGPU,
		chromedp.WindowSize(c.cfg.Width, c.cfg.Height),
	)
	if c.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if c.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.cfg.ExecPath))
	}
	return opts
}

func (c *Capturer) timed(name string, act chromedp.Action) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		start := time.Now()
		err := act.Do(ctx)
		c.logger.DebugContext(ctx, "browser action finished",
			slog.String("action", name),
			slog.Duration("duration", time.Since(start)))
		return err
	})
}

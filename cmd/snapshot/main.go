// Command snapshot writes the dashboard report for a date range to disk: the
// aggregated tables as CSV and XLSX and, optionally, a PNG of the page.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"bikepulse/internal/app"
	"bikepulse/internal/config"
	"bikepulse/internal/dataset"
	"bikepulse/internal/infrastructure"
	"bikepulse/internal/services"
	"bikepulse/internal/snapshot"
	"bikepulse/internal/validation"
	"bikepulse/pkg/contracts/domain"
)

type options struct {
	start   string
	end     string
	outDir  string
	formats string
	png     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.start, "start", "", "first day to include (YYYY-MM-DD, defaults to the earliest date)")
	flag.StringVar(&opts.end, "end", "", "last day to include (YYYY-MM-DD, defaults to the latest date)")
	flag.StringVar(&opts.outDir, "out", "reports", "output directory")
	flag.StringVar(&opts.formats, "formats", "csv,xlsx", "comma separated export formats (csv, xlsx)")
	flag.BoolVar(&opts.png, "png", false, "also capture the dashboard page as a PNG (needs Chrome)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("Snapshot failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	req, err := parseRequest(opts.start, opts.end)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.Telemetry.MetricExporter = "none"

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Hub.Stop()

	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(opts.outDir); err != nil {
		return err
	}

	for _, format := range strings.Split(opts.formats, ",") {
		format = strings.TrimSpace(format)
		if format == "" {
			continue
		}
		file, err := application.Services.Dashboard.Export(ctx, req, format)
		if err != nil {
			return err
		}
		if err := writeOutput(opts.outDir, file.Name, file.Data, logger); err != nil {
			return err
		}
	}

	if opts.png {
		return capturePNG(ctx, application, req, opts.outDir)
	}
	return nil
}

// parseRequest reads the optional bounds given on the command line.
func parseRequest(start, end string) (dataset.RangeRequest, error) {
	var req dataset.RangeRequest
	var err error
	if start != "" {
		if req.Start, err = time.Parse(domain.DateLayout, start); err != nil {
			return req, fmt.Errorf("invalid -start %q: %w", start, err)
		}
	}
	if end != "" {
		if req.End, err = time.Parse(domain.DateLayout, end); err != nil {
			return req, fmt.Errorf("invalid -end %q: %w", end, err)
		}
	}
	return req, nil
}

// capturePNG serves the dashboard on a loopback port and screenshots it.
func capturePNG(ctx context.Context, application *app.Application, req dataset.RangeRequest, outDir string) error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listen for snapshot server: %w", err)
	}

	srv := &http.Server{Handler: application.Router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			application.Logger.Error("Snapshot server error", slog.String("error", err.Error()))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	cfg := application.Config.Snapshot
	capturer := snapshot.NewCapturer(cfg, application.Logger)
	snaps := services.NewSnapshotService(capturer, true, "http://"+ln.Addr().String(), application.Metrics, application.Logger)

	png, err := snaps.Capture(ctx, req)
	if err != nil {
		return fmt.Errorf("capture dashboard: %w", err)
	}

	name := "bikepulse_dashboard.png"
	if !req.Start.IsZero() || !req.End.IsZero() {
		name = fmt.Sprintf("bikepulse_dashboard_%s_%s.png", dateOrAll(req.Start), dateOrAll(req.End))
	}
	return writeOutput(outDir, name, png, application.Logger)
}

func dateOrAll(t time.Time) string {
	if t.IsZero() {
		return "all"
	}
	return t.Format(domain.DateLayout)
}

func writeOutput(dir, name string, data []byte, logger *slog.Logger) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("Wrote report file", slog.String("path", path), slog.Int("bytes", len(data)))
	return nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"bikepulse/internal/dataset"
	"bikepulse/internal/infrastructure"
	"bikepulse/pkg/contracts/domain"
)

// PageCapturer renders a URL to a PNG.
type PageCapturer interface {
	Capture(ctx context.Context, url string) ([]byte, error)
}

// SnapshotService captures the dashboard page for a date range.
type SnapshotService struct {
	capturer PageCapturer
	enabled  bool
	baseURL  string
	metrics  *infrastructure.DashboardMetrics
	logger   *slog.Logger
}

// NewSnapshotService creates a snapshot service that captures pages under baseURL.
func NewSnapshotService(capturer PageCapturer, enabled bool, baseURL string, metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *SnapshotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotService{
		capturer: capturer,
		enabled:  enabled && capturer != nil,
		baseURL:  baseURL,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "snapshot_service")),
	}
}

// Enabled reports whether captures are allowed.
func (s *SnapshotService) Enabled() bool { return s.enabled }

// Capture returns a PNG of the dashboard filtered to req.
func (s *SnapshotService) Capture(ctx context.Context, req dataset.RangeRequest) ([]byte, error) {
	if !s.enabled {
		return nil, ErrSnapshotDisabled
	}

	target, err := DashboardURL(s.baseURL, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	png, err := s.capturer.Capture(ctx, target)
	infrastructure.RecordSnapshot(ctx, s.metrics, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "dashboard snapshot taken",
		slog.String("url", target),
		slog.Int("bytes", len(png)))
	return png, nil
}

// DashboardURL builds the dashboard page URL for req under base.
func DashboardURL(base string, req dataset.RangeRequest) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid snapshot base url %q: %w", base, err)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	q := u.Query()
	if !req.Start.IsZero() {
		q.Set("start", req.Start.Format(domain.DateLayout))
	}
	if !req.End.IsZero() {
		q.Set("end", req.End.Format(domain.DateLayout))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

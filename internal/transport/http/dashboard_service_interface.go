package http

import (
	"context"

	"bikepulse/internal/dataset"
	"bikepulse/internal/services"
)

// DashboardServiceInterface defines the dashboard operations the handlers use
type DashboardServiceInterface interface {
	State(ctx context.Context, req dataset.RangeRequest) *services.DashboardState
	BuildReport(ctx context.Context, req dataset.RangeRequest) (*services.Report, error)
	RenderPanel(ctx context.Context, name string, req dataset.RangeRequest) ([]byte, error)
	Export(ctx context.Context, req dataset.RangeRequest, format string) (*services.ExportFile, error)
	Dataset(ctx context.Context) (*services.DatasetInfo, error)
	Reload(ctx context.Context) (*services.DatasetInfo, error)
}

// SnapshotServiceInterface captures the dashboard page as a PNG
type SnapshotServiceInterface interface {
	Enabled() bool
	Capture(ctx context.Context, req dataset.RangeRequest) ([]byte, error)
}

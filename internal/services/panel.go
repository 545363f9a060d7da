package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bikepulse/internal/analytics"
	"bikepulse/internal/infrastructure"
)

// PanelStatus says how a panel ended up.
type PanelStatus string

const (
	PanelOK          PanelStatus = "ok"
	PanelPlaceholder PanelStatus = "placeholder"
	PanelError       PanelStatus = "error"
)

// Panel names as used in URLs, metrics and logs.
const (
	PanelWeather   = "weather"
	PanelTemporal  = "temporal"
	PanelTimeOfDay = "timeofday"
)

// PanelNames lists the panels in display order.
var PanelNames = []string{PanelWeather, PanelTemporal, PanelTimeOfDay}

// PanelTitles are the section headers shown above each panel.
var PanelTitles = map[string]string{
	PanelWeather:   "Weather Condition Comparison",
	PanelTemporal:  "Temporal Rental Patterns",
	PanelTimeOfDay: "Rentals by Time of Day",
}

// Panel is the outcome of one analyzer. Data is set only when Status is ok.
type Panel[T any] struct {
	Status  PanelStatus `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    *T          `json:"data,omitempty"`
}

// OK reports whether the panel has data to draw.
func (p Panel[T]) OK() bool { return p.Status == PanelOK && p.Data != nil }

// runPanel calls fn and converts its failure modes into a panel instead of an
// error: degenerate inputs become placeholders, other errors and panics become
// error panels.
func runPanel[T any](ctx context.Context, logger *slog.Logger, metrics *infrastructure.DashboardMetrics, name string, fn func() (*T, error)) (p Panel[T]) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorContext(ctx, "panel panicked",
				slog.String("panel", name),
				slog.Any("panic", rec))
			p = Panel[T]{Status: PanelError, Message: fmt.Sprintf("An error occurred: %v", rec)}
		}
		infrastructure.RecordPanelRender(ctx, metrics, name, string(p.Status), time.Since(start))
	}()

	data, err := fn()
	switch {
	case err == nil && data != nil:
		return Panel[T]{Status: PanelOK, Data: data}
	case err == nil:
		return Panel[T]{Status: PanelPlaceholder, Message: analytics.PlaceholderMessage(analytics.ErrNoData)}
	case analytics.IsDegenerate(err):
		logger.DebugContext(ctx, "panel has nothing to draw",
			slog.String("panel", name),
			slog.String("reason", err.Error()))
		return Panel[T]{Status: PanelPlaceholder, Message: analytics.PlaceholderMessage(err)}
	default:
		logger.ErrorContext(ctx, "panel failed",
			slog.String("panel", name),
			slog.String("error", err.Error()))
		infrastructure.RecordError(ctx, err)
		return Panel[T]{Status: PanelError, Message: analytics.PlaceholderMessage(err)}
	}
}

package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"bikepulse/internal/config"
)

func TestInitializeOTelDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Default().Telemetry
	cfg.TraceExporter = "none"
	cfg.MetricExporter = "none"

	providers, err := InitializeOTel(cfg, logger)
	require.NoError(t, err)
	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)

	metrics, err := CreateDashboardMetrics(providers.Meter)
	require.NoError(t, err)
	RecordPanelRender(context.Background(), metrics, "weather", "ok", time.Millisecond)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTelRejectsUnknownExporter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Default().Telemetry
	cfg.TraceExporter = "zipkin"

	_, err := InitializeOTel(cfg, logger)
	assert.Error(t, err)
}

func TestDashboardMetricsRecording(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := CreateDashboardMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	RecordDatasetLoad(ctx, metrics, 10*time.Millisecond, nil)
	RecordDatasetLoad(ctx, metrics, 10*time.Millisecond, errors.New("boom"))
	RecordDatasetCache(ctx, metrics, true)
	RecordExport(ctx, metrics, "csv")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
					if m.Name == "dataset_loads_total" {
						v, ok := dp.Attributes.Value(attribute.Key("outcome"))
						require.True(t, ok)
						assert.Contains(t, []string{"success", "failure"}, v.AsString())
					}
				}
			}
		}
	}

	assert.Equal(t, int64(2), sums["dataset_loads_total"])
	assert.Equal(t, int64(1), sums["dataset_cache_hits_total"])
	assert.Equal(t, int64(1), sums["exports_total"])
}

func TestRecordHelpersTolerateNilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordDatasetLoad(ctx, nil, time.Second, nil)
		RecordDatasetCache(ctx, nil, false)
		RecordPanelRender(ctx, nil, "timeofday", "error", time.Second)
		RecordSnapshot(ctx, nil, time.Second, nil)
		RecordExport(ctx, nil, "xlsx")
		RecordWebSocketConnection(ctx, nil, 1)
		RecordError(ctx, errors.New("x"))
	})
}

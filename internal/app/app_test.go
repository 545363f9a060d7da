package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikepulse/internal/config"
	apierrors "bikepulse/internal/errors"
	"bikepulse/internal/shared/testutil"
	"bikepulse/pkg/contracts"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig returns a configuration pointing at fixture files in a temp dir.
// withData=false leaves the paths dangling.
func testConfig(t *testing.T, withData bool) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Data.DailyPath = filepath.Join(dir, "day.csv")
	cfg.Data.HourlyPath = filepath.Join(dir, "hour.csv")
	if withData {
		cfg.Data.DailyPath, cfg.Data.HourlyPath = testutil.WriteRentalFixtures(t, dir)
	}
	cfg.Snapshot.Enabled = false
	cfg.Telemetry.MetricExporter = "none"
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	app, err := New(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(app.Hub.Stop)
	return app
}

func do(app *Application, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestNewWiresRoutes(t *testing.T) {
	app := newTestApp(t, testConfig(t, true))

	tests := []struct {
		name         string
		method       string
		target       string
		expectedCode int
		contains     string
	}{
		{"dashboard page", http.MethodGet, "/", http.StatusOK, "Bike Rental Dashboard"},
		{"weather panel", http.MethodGet, "/panels/weather?start=2011-01-01&end=2011-01-04", http.StatusOK, "Total Rentals per Weather Condition"},
		{"time of day panel", http.MethodGet, "/panels/timeofday", http.StatusOK, "Morning (06:00-12:00)"},
		{"unknown panel", http.MethodGet, "/panels/rainfall", http.StatusNotFound, apierrors.TypeNotFound},
		{"report", http.MethodGet, "/api/report?start=2011-01-02&end=2011-01-03", http.StatusOK, `"start":"2011-01-02T00:00:00Z"`},
		{"reversed range", http.MethodGet, "/api/report?start=2011-01-04&end=2011-01-02", http.StatusBadRequest, apierrors.TypeInvalidRange},
		{"bounds", http.MethodGet, "/api/bounds", http.StatusOK, `"daily_rows":4`},
		{"csv export", http.MethodGet, "/api/export.csv", http.StatusOK, "Light Rain"},
		{"snapshot disabled", http.MethodGet, "/api/snapshot.png", http.StatusServiceUnavailable, "SNAPSHOT_DISABLED"},
		{"liveness", http.MethodGet, "/api/health/live", http.StatusOK, "alive"},
		{"readiness", http.MethodGet, "/api/health/ready", http.StatusOK, "ready"},
		{"version", http.MethodGet, "/api/version", http.StatusOK, contracts.Version},
		{"unknown route", http.MethodGet, "/nowhere", http.StatusNotFound, apierrors.TypeNotFound},
		{"wrong method", http.MethodDelete, "/api/bounds", http.StatusMethodNotAllowed, apierrors.TypeMethod},
		{"metrics disabled", http.MethodGet, "/metrics", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(app, tt.method, tt.target)
			assert.Equal(t, tt.expectedCode, rec.Code, rec.Body.String())
			if tt.contains != "" {
				assert.Contains(t, rec.Body.String(), tt.contains)
			}
			assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
		})
	}
}

func TestMissingDataServesErrorPage(t *testing.T) {
	app := newTestApp(t, testConfig(t, false))

	rec := do(app, http.MethodGet, "/")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error loading data:")
	assert.NotContains(t, rec.Body.String(), "<iframe")

	rec = do(app, http.MethodGet, "/api/report")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), apierrors.TypeDataUnavailable)

	rec = do(app, http.MethodGet, "/api/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(app, http.MethodGet, "/api/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDashboardResponsesAreCompressed(t *testing.T) {
	app := newTestApp(t, testConfig(t, true))

	req := httptest.NewRequest(http.MethodGet, "/panels/temporal", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestSecurityHeadersFollowAssetsHost(t *testing.T) {
	cfg := testConfig(t, true)
	cfg.Server.AssetsHost = "https://cdn.example.com/echarts/"
	app := newTestApp(t, cfg)

	rec := do(app, http.MethodGet, "/")
	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "https://cdn.example.com")
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))

	rec = do(app, http.MethodGet, "/panels/weather")
	assert.Contains(t, rec.Body.String(), "https://cdn.example.com/echarts/")
}

func TestSnapshotBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		port     int
		baseURL  string
		expected string
	}{
		{"configured", "0.0.0.0", 8080, "http://dashboard.internal:9000", "http://dashboard.internal:9000"},
		{"all interfaces", "0.0.0.0", 8080, "", "http://127.0.0.1:8080"},
		{"empty host", "", 9090, "", "http://127.0.0.1:9090"},
		{"explicit host", "10.0.0.5", 8080, "", "http://10.0.0.5:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Server.Host = tt.host
			cfg.Server.Port = tt.port
			cfg.Snapshot.BaseURL = tt.baseURL
			a := &Application{Config: cfg}
			assert.Equal(t, tt.expected, a.snapshotBaseURL())
		})
	}
}

func TestStartStop(t *testing.T) {
	app := newTestApp(t, testConfig(t, true))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))

	stats := app.Loader.Stats()
	assert.Equal(t, int64(1), stats.Loads, "startup should warm the cache")
	assert.False(t, app.Loader.Changed())

	require.NoError(t, app.Stop(context.Background()))
	assert.Equal(t, 0, app.Hub.ClientCount())
}

func TestBuildMetadataInVersion(t *testing.T) {
	app := newTestApp(t, testConfig(t, true))

	rec := do(app, http.MethodGet, "/api/version")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"version":"`+contracts.Version+`"`), rec.Body.String())
}

func TestStartWarnsAboutMissingData(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	app, err := New(testConfig(t, false), logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	require.NoError(t, app.Stop(context.Background()))

	rec, ok := logs.Find("Startup data check warnings")
	require.True(t, ok)
	assert.Contains(t, rec.Attrs["warnings"], "day.csv does not exist")
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Rental data not loaded at startup")
}

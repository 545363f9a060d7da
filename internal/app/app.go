package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzhttp"

	"bikepulse/internal/charts"
	"bikepulse/internal/config"
	apierrors "bikepulse/internal/errors"
	"bikepulse/internal/dataset"
	"bikepulse/internal/infrastructure"
	customMiddleware "bikepulse/internal/middleware"
	"bikepulse/internal/services"
	"bikepulse/internal/snapshot"
	handlers "bikepulse/internal/transport/http"
	"bikepulse/internal/validation"
	ws "bikepulse/internal/websocket"
	"bikepulse/pkg/contracts"
)

// snapshotTimeoutSlack is added on top of the browser timeout for the snapshot route.
const snapshotTimeoutSlack = 5 * time.Second

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics
	Services      *ServiceContainer

	Loader  *dataset.Loader
	Watcher *dataset.Watcher
	Hub     *ws.Hub
	Style   charts.Style

	errorHandler *apierrors.ErrorHandler
	validator    *customMiddleware.ValidationMiddleware
	stopWatcher  context.CancelFunc
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dashboard *services.DashboardService
	Snapshot  *services.SnapshotService
	Health    *services.HealthService
}

// NewApplication loads configuration from the environment and builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New builds the application from an explicit configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg.Telemetry.ServiceVersion == "" || cfg.Telemetry.ServiceVersion == "dev" {
		cfg.Telemetry.ServiceVersion = contracts.Version
	}

	logger.Info("Application starting",
		slog.String("name", contracts.AppName),
		slog.String("version", contracts.Version),
		slog.String("daily_path", cfg.Data.DailyPath),
		slog.String("hourly_path", cfg.Data.HourlyPath))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateDashboardMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard metrics: %w", err)
	}

	style := charts.DefaultStyle()
	style.AssetsHost = cfg.Server.AssetsHost

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		Style:         style,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
		validator:     customMiddleware.NewValidationMiddleware(logger),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	a.Loader = dataset.NewLoader(a.Config.Data.DailyPath, a.Config.Data.HourlyPath, a.Logger,
		dataset.WithMetrics(a.Metrics))

	a.Hub = ws.NewHub(a.Config.WebSocket, a.Metrics, a.Logger)

	a.Watcher = dataset.NewWatcher(a.Loader, a.Config.Data.WatchInterval, a.Logger)
	a.Watcher.OnReload(a.Hub.BroadcastDatasetReloaded)

	dashboard := services.NewDashboardService(a.Loader, a.Style, a.Metrics, a.Logger)

	capturer := snapshot.NewCapturer(a.Config.Snapshot, a.Logger)
	snapshots := services.NewSnapshotService(capturer, a.Config.Snapshot.Enabled, a.snapshotBaseURL(), a.Metrics, a.Logger)

	health := services.NewHealthService(services.BuildInfo{
		Version:   contracts.Version,
		BuildTime: contracts.BuildTime,
		BuildID:   contracts.GitCommit,
	}, dashboard, a.Hub, a.Logger)

	a.Services = &ServiceContainer{
		Dashboard: dashboard,
		Snapshot:  snapshots,
		Health:    health,
	}
}

// snapshotBaseURL is the address the headless browser loads the page from.
func (a *Application) snapshotBaseURL() string {
	if a.Config.Snapshot.BaseURL != "" {
		return a.Config.Snapshot.BaseURL
	}
	host := a.Config.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, a.Config.Server.Port)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// The WebSocket route sits outside the full stack: the timeout and
	// response wrappers would break the hijacked connection.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Handle("/ws", ws.NewHandler(a.Hub, a.Config.Security.AllowedOrigins, a.Logger))

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}

		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders(a.Style.ScriptHost()))

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.corsConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupRoutes(r)
	})

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	a.Router = r
}

// setupRoutes registers the page and API endpoints.
func (a *Application) setupRoutes(r chi.Router) {
	dashboardHandler := handlers.NewDashboardHandler(a.Services.Dashboard, a.Services.Snapshot, a.validator, a.Logger, a.errorHandler)
	apiHandler := handlers.NewAPIHandler(a.Services.Dashboard, a.Services.Snapshot, a.validator, a.Logger, a.errorHandler)
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)

	requestTimeout := customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger)

	r.Group(func(r chi.Router) {
		r.Use(requestTimeout)
		r.Use(func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) })

		r.Get("/", dashboardHandler.ServeDashboard)
		r.Get("/panels/{name}", dashboardHandler.ServePanel)
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(requestTimeout)
			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
			r.Get("/health/live", healthHandler.LivenessCheck)
			r.Get("/version", healthHandler.Version)
		})

		// Snapshots drive a browser that loads the page again, so they get
		// their own, longer deadline.
		r.With(customMiddleware.Timeout(a.Config.Snapshot.Timeout+snapshotTimeoutSlack, a.Logger)).
			Get("/snapshot.png", apiHandler.GetSnapshot)

		r.With(requestTimeout).Mount("/", apiHandler.Routes())
	})
}

// corsConfig returns the CORS configuration
func (a *Application) corsConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match", "X-Request-ID"},
		ExposedHeaders: []string{"ETag", "Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the application
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", contracts.AppName),
		slog.String("version", contracts.Version),
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	a.Hub.Start()

	if err := validation.NewFileValidator(a.Logger).ValidateDataFiles(a.Config.Data.DailyPath, a.Config.Data.HourlyPath); err != nil {
		a.Logger.WarnContext(ctx, "Startup data check warnings", slog.String("warnings", err.Error()))
	}

	// The first load warms the cache; a failure is served as the error page.
	if _, err := a.Loader.Load(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Rental data not loaded at startup", slog.String("error", err.Error()))
	}

	watchCtx, stopWatcher := context.WithCancel(ctx)
	a.stopWatcher = stopWatcher
	go a.Watcher.Run(watchCtx)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("url", "http://"+a.Server.Addr))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if a.stopWatcher != nil {
		a.stopWatcher()
	}

	// Shutdown does not track hijacked connections; the hub closes them.
	a.Hub.Stop()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	// ctx may already be cancelled; shutdown gets a fresh one.
	return a.Stop(context.Background())
}

package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "bikepulse/internal/errors"
	"bikepulse/internal/services"
)

// APIHandler serves report data, exports and snapshots as JSON or files
type APIHandler struct {
	service      DashboardServiceInterface
	snapshots    SnapshotServiceInterface
	validator    StructValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAPIHandler creates a new API handler. snapshots may be nil.
func NewAPIHandler(service DashboardServiceInterface, snapshots SnapshotServiceInterface, validator StructValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *APIHandler {
	return &APIHandler{
		service:      service,
		snapshots:    snapshots,
		validator:    validator,
		logger:       logger.With(slog.String("component", "api_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the API routes, mounted under /api
func (h *APIHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/report", h.GetReport)
		r.Get("/bounds", h.GetBounds)
		r.Post("/dataset/reload", h.ReloadDataset)
	})

	r.Get("/export.csv", h.export(services.FormatCSV))
	r.Get("/export.xlsx", h.export(services.FormatXLSX))
	r.Get("/snapshot.png", h.GetSnapshot)

	return r
}

// GetReport handles GET /api/report
func (h *APIHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := parseRange(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.BuildReport(ctx, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	if report.Fingerprint != "" {
		w.Header().Set("ETag", strconv.Quote(report.Fingerprint+"-"+report.Range.String()))
	}
	render.JSON(w, r, report)
}

// GetBounds handles GET /api/bounds
func (h *APIHandler) GetBounds(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Dataset(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}
	render.JSON(w, r, info)
}

// ReloadDataset handles POST /api/dataset/reload
func (h *APIHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "dataset reload requested",
		slog.String("request_id", middleware.GetReqID(ctx)))

	info, err := h.service.Reload(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}
	render.JSON(w, r, info)
}

func (h *APIHandler) export(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		req, err := parseRange(r, h.validator)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		file, err := h.service.Export(ctx, req, format)
		if err != nil {
			h.errorHandler.HandleError(w, r, toAPIError(err))
			return
		}

		w.Header().Set("Content-Type", file.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
		w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(file.Data)
	}
}

// GetSnapshot handles GET /api/snapshot.png
func (h *APIHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.snapshots == nil || !h.snapshots.Enabled() {
		h.errorHandler.HandleError(w, r, toAPIError(services.ErrSnapshotDisabled))
		return
	}

	req, err := parseRange(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	png, err := h.snapshots.Capture(ctx, req)
	if err != nil {
		mapped := toAPIError(err)
		var apiErr *apierrors.APIError
		if !errors.As(mapped, &apiErr) && ctx.Err() == nil {
			mapped = apierrors.NewWithDetails(http.StatusBadGateway, apierrors.CodeSnapshotFailed,
				"Dashboard snapshot failed", err.Error())
		}
		h.errorHandler.HandleError(w, r, mapped)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

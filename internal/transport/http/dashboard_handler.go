package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"bikepulse/internal/dataset"
	apierrors "bikepulse/internal/errors"
	"bikepulse/internal/services"
	api "bikepulse/pkg/contracts/api/v1"
	"bikepulse/pkg/contracts/domain"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// DashboardTitle heads the page.
const DashboardTitle = "Bike Rental Dashboard"

// iframe heights in pixels, sized for each panel's chart grid
var panelHeights = map[string]int{
	services.PanelWeather:   1000,
	services.PanelTimeOfDay: 520,
}

// The temporal panel stacks a variable number of charts.
const (
	temporalChartHeight = 470
	temporalFrameChrome = 90
	placeholderHeight   = 200
)

func panelHeight(name string, st *services.DashboardState) int {
	if name != services.PanelTemporal {
		return panelHeights[name]
	}
	if st.TemporalCharts == 0 {
		return placeholderHeight
	}
	return temporalFrameChrome + st.TemporalCharts*temporalChartHeight
}

// DashboardHandler serves the page shell and the embedded panel pages
type DashboardHandler struct {
	service      DashboardServiceInterface
	snapshots    SnapshotServiceInterface
	validator    StructValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler. snapshots may be nil.
func NewDashboardHandler(service DashboardServiceInterface, snapshots SnapshotServiceInterface, validator StructValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		snapshots:    snapshots,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

type panelLink struct {
	Name   string
	Title  string
	URL    string
	Height int
}

type dashboardPage struct {
	Title           string
	Start, End      string
	Min, Max        string
	Disabled        bool
	LoadError       string
	Empty           bool
	Panels          []panelLink
	ExportCSV       string
	ExportXLSX      string
	Snapshot        string
	SnapshotEnabled bool
}

// ServeDashboard handles GET /
func (h *DashboardHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// The page is lenient: a malformed date falls back to the dataset bound.
	req, err := parseRange(r, h.validator)
	if err != nil {
		h.logger.DebugContext(ctx, "ignoring malformed range on page", slog.String("error", err.Error()))
		req = dataset.RangeRequest{}
	}

	st := h.service.State(ctx, req)
	page := dashboardPage{
		Title:           DashboardTitle,
		LoadError:       st.LoadError,
		Empty:           st.Empty,
		Disabled:        !st.Available() || st.Empty,
		SnapshotEnabled: h.snapshots != nil && h.snapshots.Enabled(),
	}

	if !page.Disabled {
		page.Min = st.Bounds.Start.Format(domain.DateLayout)
		page.Max = st.Bounds.End.Format(domain.DateLayout)
		page.Start = st.Range.Start.Format(domain.DateLayout)
		page.End = st.Range.End.Format(domain.DateLayout)

		query := rangeQuery(page.Start, page.End)
		for _, name := range services.PanelNames {
			page.Panels = append(page.Panels, panelLink{
				Name:   name,
				Title:  services.PanelTitles[name],
				URL:    "/panels/" + name + "?" + query,
				Height: panelHeight(name, st),
			})
		}
		page.ExportCSV = "/api/export.csv?" + query
		page.ExportXLSX = "/api/export.xlsx?" + query
		page.Snapshot = "/api/snapshot.png?" + query
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	status := http.StatusOK
	if !st.Available() {
		status = http.StatusServiceUnavailable
	}
	writeHTML(w, status, buf.Bytes())
}

// ServePanel handles GET /panels/{name}
func (h *DashboardHandler) ServePanel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	req, err := parseRange(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	page, err := h.service.RenderPanel(ctx, name, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}
	writeHTML(w, http.StatusOK, page)
}

func rangeQuery(start, end string) string {
	v := url.Values{}
	v.Set(api.ParamStart, start)
	v.Set(api.ParamEnd, end)
	return v.Encode()
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-echarts/go-echarts/v2/components"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"bikepulse/internal/analytics"
	"bikepulse/internal/charts"
	"bikepulse/internal/dataset"
	"bikepulse/internal/exporter"
	"bikepulse/internal/infrastructure"
	"bikepulse/pkg/contracts/domain"
)

var tracer = otel.Tracer("bikepulse/services")

// TableSource provides the loaded rental tables.
type TableSource interface {
	Load(ctx context.Context) (*dataset.Tables, error)
	Invalidate()
}

// DashboardService builds reports, panel pages and exports over the loaded tables.
type DashboardService struct {
	source  TableSource
	style   charts.Style
	metrics *infrastructure.DashboardMetrics
	logger  *slog.Logger
	csv     *exporter.CSVWriter
	xlsx    *exporter.XLSXWriter
}

// NewDashboardService creates a dashboard service. metrics may be nil.
func NewDashboardService(source TableSource, style charts.Style, metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dashboard_service"))
	return &DashboardService{
		source:  source,
		style:   style,
		metrics: metrics,
		logger:  logger,
		csv:     exporter.NewCSVWriter(logger),
		xlsx:    exporter.NewXLSXWriter(logger),
	}
}

// Report is the result of all three analyzers for one date range.
type Report struct {
	Range       domain.DateRange                    `json:"range"`
	Bounds      domain.DateRange                    `json:"bounds"`
	Fingerprint string                              `json:"fingerprint"`
	GeneratedAt time.Time                           `json:"generated_at"`
	Weather     Panel[analytics.WeatherComparison]  `json:"weather"`
	Temporal    Panel[analytics.TemporalPattern]    `json:"temporal"`
	TimeOfDay   Panel[analytics.TimeOfDayBreakdown] `json:"time_of_day"`
}

// DatasetInfo describes the currently loaded tables.
type DatasetInfo struct {
	Bounds      domain.DateRange     `json:"bounds"`
	Empty       bool                 `json:"empty"`
	Fingerprint string               `json:"fingerprint"`
	LoadedAt    time.Time            `json:"loaded_at"`
	DailyRows   int                  `json:"daily_rows"`
	HourlyRows  int                  `json:"hourly_rows"`
	Sources     []dataset.SourceInfo `json:"sources"`
}

// DashboardState is what the page shell needs: the selectable bounds, the
// selected range and, when loading failed, the reason.
type DashboardState struct {
	Bounds      domain.DateRange
	Range       domain.DateRange
	Fingerprint string
	Empty       bool
	LoadError   string
	// TemporalCharts is how many charts the temporal panel draws for Range.
	TemporalCharts int
}

// Available reports whether the tables loaded.
func (s *DashboardState) Available() bool { return s.LoadError == "" }

// ExportFile is a rendered export ready to be sent.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Dataset returns information about the loaded tables.
func (s *DashboardService) Dataset(ctx context.Context) (*DatasetInfo, error) {
	tables, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return datasetInfo(tables), nil
}

// Reload drops the cached tables and loads them again.
func (s *DashboardService) Reload(ctx context.Context) (*DatasetInfo, error) {
	s.logger.InfoContext(ctx, "reloading dataset")
	s.source.Invalidate()
	return s.Dataset(ctx)
}

// State resolves the range for the page shell. It never fails: a load error
// is reported in the state and an unusable range falls back to the bounds.
func (s *DashboardService) State(ctx context.Context, req dataset.RangeRequest) *DashboardState {
	tables, err := s.load(ctx)
	if err != nil {
		return &DashboardState{LoadError: err.Error()}
	}

	st := &DashboardState{Fingerprint: tables.Fingerprint}
	bounds, err := tables.Bounds()
	if err != nil {
		st.Empty = true
		return st
	}
	st.Bounds = bounds
	st.Range = lenientRange(req, bounds)

	filtered := tables.Filter(st.Range)
	if p, err := analytics.AnalyzeTemporal(filtered.Daily, filtered.Hourly); err == nil {
		st.TemporalCharts = p.PanelCount()
	}
	return st
}

// BuildReport loads the tables, filters them to the requested range and runs
// every analyzer. Panel failures are reported inside the report; only load
// failures and invalid ranges are returned as errors.
func (s *DashboardService) BuildReport(ctx context.Context, req dataset.RangeRequest) (*Report, error) {
	ctx, span := tracer.Start(ctx, "dashboard.BuildReport")
	defer span.End()

	tables, err := s.load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "data unavailable")
		return nil, err
	}

	report := &Report{Fingerprint: tables.Fingerprint, GeneratedAt: time.Now().UTC()}
	filtered := tables
	if bounds, err := tables.Bounds(); err == nil {
		r, err := dataset.ResolveRange(req, bounds)
		if err != nil {
			span.SetStatus(codes.Error, "invalid range")
			return nil, err
		}
		report.Bounds = bounds
		report.Range = r
		filtered = tables.Filter(r)
	}
	span.SetAttributes(attribute.String("report.range", report.Range.String()))

	report.Weather = runPanel(ctx, s.logger, s.metrics, PanelWeather, func() (*analytics.WeatherComparison, error) {
		return analytics.CompareWeather(filtered.Daily, filtered.Hourly)
	})
	report.Temporal = runPanel(ctx, s.logger, s.metrics, PanelTemporal, func() (*analytics.TemporalPattern, error) {
		return analytics.AnalyzeTemporal(filtered.Daily, filtered.Hourly)
	})
	report.TimeOfDay = runPanel(ctx, s.logger, s.metrics, PanelTimeOfDay, func() (*analytics.TimeOfDayBreakdown, error) {
		return analytics.AnalyzeTimeOfDay(filtered.Hourly)
	})

	s.logger.DebugContext(ctx, "report built",
		slog.String("range", report.Range.String()),
		slog.String("weather", string(report.Weather.Status)),
		slog.String("temporal", string(report.Temporal.Status)),
		slog.String("time_of_day", string(report.TimeOfDay.Status)))
	return report, nil
}

type chartSet struct {
	items   []components.Charter
	caption string
}

// RenderPanel renders one panel as a standalone HTML page. The range is
// resolved leniently: out-of-bounds dates are clamped and an end before the
// start is raised to it. Degenerate or failing panels render as placeholders.
func (s *DashboardService) RenderPanel(ctx context.Context, name string, req dataset.RangeRequest) ([]byte, error) {
	title, ok := PanelTitles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPanel, name)
	}

	ctx, span := tracer.Start(ctx, "dashboard.RenderPanel")
	defer span.End()
	span.SetAttributes(attribute.String("panel", name))

	tables, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	filtered := tables
	if bounds, err := tables.Bounds(); err == nil {
		filtered = tables.Filter(lenientRange(req, bounds))
	}

	var p Panel[chartSet]
	switch name {
	case PanelWeather:
		p = runPanel(ctx, s.logger, s.metrics, name, func() (*chartSet, error) {
			c, err := analytics.CompareWeather(filtered.Daily, filtered.Hourly)
			if err != nil {
				return nil, err
			}
			return &chartSet{items: charts.WeatherCharts(c, s.style)}, nil
		})
	case PanelTemporal:
		p = runPanel(ctx, s.logger, s.metrics, name, func() (*chartSet, error) {
			t, err := analytics.AnalyzeTemporal(filtered.Daily, filtered.Hourly)
			if err != nil {
				return nil, err
			}
			set := &chartSet{items: charts.TemporalCharts(t, s.style)}
			if len(set.items) > 1 {
				set.caption = charts.TemporalCaption
			}
			return set, nil
		})
	case PanelTimeOfDay:
		p = runPanel(ctx, s.logger, s.metrics, name, func() (*chartSet, error) {
			b, err := analytics.AnalyzeTimeOfDay(filtered.Hourly)
			if err != nil {
				return nil, err
			}
			return &chartSet{items: charts.TimeOfDayCharts(b, s.style)}, nil
		})
	}

	var buf bytes.Buffer
	if p.OK() {
		err = charts.RenderPage(&buf, title, s.style, p.Data.caption, p.Data.items...)
	} else {
		err = charts.RenderPlaceholder(&buf, title, p.Message, p.Status == PanelError)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("render %s panel: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Export renders the report tables for the requested range as CSV or XLSX.
func (s *DashboardService) Export(ctx context.Context, req dataset.RangeRequest, format string) (*ExportFile, error) {
	if format != FormatCSV && format != FormatXLSX {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	report, err := s.BuildReport(ctx, req)
	if err != nil {
		return nil, err
	}
	tables := exporter.BuildTables(report.Weather.Data, report.Temporal.Data, report.TimeOfDay.Data)

	name := "bikepulse_report"
	if !report.Range.Start.IsZero() {
		name = fmt.Sprintf("bikepulse_report_%s_%s",
			report.Range.Start.Format(domain.DateLayout), report.Range.End.Format(domain.DateLayout))
	}

	var buf bytes.Buffer
	file := &ExportFile{Name: name + "." + format}
	switch format {
	case FormatCSV:
		file.ContentType = "text/csv; charset=utf-8"
		err = s.csv.Write(&buf, tables, exporter.WriteOptions{BOMPrefix: true})
	case FormatXLSX:
		file.ContentType = xlsxContentType
		err = s.xlsx.Write(&buf, tables)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}
	file.Data = buf.Bytes()

	infrastructure.RecordExport(ctx, s.metrics, format)
	s.logger.InfoContext(ctx, "report exported",
		slog.String("format", format),
		slog.String("file", file.Name),
		slog.Int("table_count", len(tables)),
		slog.Int("bytes", len(file.Data)))
	return file, nil
}

func (s *DashboardService) load(ctx context.Context) (*dataset.Tables, error) {
	tables, err := s.source.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "rental data unavailable", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrReportUnavailable, err)
	}
	return tables, nil
}

// lenientRange resolves req for display, never failing.
func lenientRange(req dataset.RangeRequest, bounds domain.DateRange) domain.DateRange {
	req.Strict = false
	if !req.Start.IsZero() && !req.End.IsZero() && req.End.Before(req.Start) {
		req.End = req.Start
	}
	r, err := dataset.ResolveRange(req, bounds)
	if err != nil {
		return bounds
	}
	return r
}

func datasetInfo(t *dataset.Tables) *DatasetInfo {
	info := &DatasetInfo{
		Fingerprint: t.Fingerprint,
		LoadedAt:    t.LoadedAt,
		DailyRows:   len(t.Daily.Rows),
		HourlyRows:  len(t.Hourly.Rows),
		Sources:     t.Sources,
	}
	bounds, err := t.Bounds()
	if errors.Is(err, dataset.ErrEmptyDataset) {
		info.Empty = true
	} else {
		info.Bounds = bounds
	}
	return info
}

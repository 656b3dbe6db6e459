package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "wricefviz/internal/errors"
	"wricefviz/internal/exporter"
	"wricefviz/internal/services"
	"wricefviz/internal/tracker"
)

// DashboardHandler serves the JSON API for the dashboard pages.
type DashboardHandler struct {
	service  *services.DashboardService
	logger   *slog.Logger
	validate *validator.Validate
}

// NewDashboardHandler creates the dashboard API handler.
func NewDashboardHandler(service *services.DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:  service,
		logger:   logger.With(slog.String("component", "dashboard_handler")),
		validate: newFilterValidator(),
	}
}

// Routes returns the /api subtree for dashboard data.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/charts", h.ListCharts)
	r.Get("/charts/{name}", h.GetChart)
	r.Get("/table", h.GetTable)
	r.Get("/facets", h.GetFacets)
	r.Post("/reload", h.Reload)

	return r
}

// GetSummary returns the insights panel for the filtered table.
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := parseFilter(r, h.validate)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}

	insights, err := h.service.Summary(filter)
	if err != nil {
		render.Render(w, r, apierrors.NewWithDetails(
			http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Tracker data not loaded", err.Error()))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"insights": insights,
		"filter":   filter,
	})
}

// ListCharts returns the registered chart set.
func (h *DashboardHandler) ListCharts(w http.ResponseWriter, r *http.Request) {
	charts := exporter.Charts()
	out := make([]map[string]string, 0, len(charts))
	for _, c := range charts {
		out = append(out, map[string]string{
			"name":   c.Name,
			"title":  c.Title,
			"format": string(c.Format),
			"url":    "/charts/" + c.Name,
		})
	}
	render.JSON(w, r, map[string]interface{}{
		"charts": out,
		"count":  len(out),
	})
}

// GetChart renders one chart over the filtered table, PNG or HTML
// depending on the chart's registered format.
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	chart, ok := exporter.ChartByName(name)
	if !ok {
		render.Render(w, r, apierrors.ChartNotFoundError(name))
		return
	}

	filter, apiErr := parseFilter(r, h.validate)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}

	switch chart.Format {
	case exporter.FormatPNG:
		w.Header().Set("Content-Type", "image/png")
	case exporter.FormatHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}

	if _, err := h.service.RenderChart(r.Context(), name, filter, w); err != nil {
		// Headers may be gone already; log and emit the error body.
		h.logger.ErrorContext(r.Context(), "chart render failed",
			slog.String("chart", name),
			slog.String("error", err.Error()))
		w.Header().Set("Content-Type", "application/json")
		render.Render(w, r, apierrors.RenderError(name, err))
	}
}

// GetTable returns the filtered rows as JSON.
func (h *DashboardHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := parseFilter(r, h.validate)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}

	table, err := h.service.Filtered(filter)
	if err != nil {
		render.Render(w, r, apierrors.NewWithDetails(
			http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Tracker data not loaded", err.Error()))
		return
	}

	offset, limit, apiErr := parsePage(r)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}
	rows := table.Rows
	if offset > len(rows) {
		offset = len(rows)
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	if rows == nil {
		// Keep the JSON field an array even when nothing matches.
		rows = []tracker.Row{}
	}

	render.JSON(w, r, map[string]interface{}{
		"rows":        rows,
		"count":       len(rows),
		"total":       table.Len(),
		"offset":      offset,
		"source":      table.Source,
		"synthesized": table.Synthesized,
	})
}

// GetFacets returns the selectable filter values.
func (h *DashboardHandler) GetFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.service.Facets()
	if err != nil {
		render.Render(w, r, apierrors.NewWithDetails(
			http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Tracker data not loaded", err.Error()))
		return
	}
	render.JSON(w, r, facets)
}

// Reload re-reads the tracker data source.
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Reload(r.Context())
	if err != nil {
		render.Render(w, r, apierrors.ReloadError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "reloaded",
		"rows":   table.Len(),
		"source": table.Source,
	})
}

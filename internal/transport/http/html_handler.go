package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"wricefviz/internal/exporter"
	"wricefviz/internal/services"
)

//go:embed templates/index.html
var templateFS embed.FS

// HTMLHandler serves the dashboard index page.
type HTMLHandler struct {
	service *services.DashboardService
	tmpl    *template.Template
	logger  *slog.Logger
}

// NewHTMLHandler parses the embedded templates.
func NewHTMLHandler(service *services.DashboardService, logger *slog.Logger) (*HTMLHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTMLHandler{
		service: service,
		tmpl:    tmpl,
		logger:  logger.With(slog.String("component", "html_handler")),
	}, nil
}

type indexData struct {
	Source      string
	Rows        int
	Synthesized string
	Charts      []exporter.Chart
}

// Index renders the dashboard page with the chart grid.
func (h *HTMLHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := indexData{Charts: exporter.Charts()}
	if table := h.service.Table(); table != nil {
		data.Source = table.Source
		data.Rows = table.Len()
		cols := make([]string, 0, len(table.Synthesized))
		for _, c := range table.Synthesized {
			cols = append(cols, string(c))
		}
		data.Synthesized = strings.Join(cols, ", ")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, data); err != nil {
		h.logger.ErrorContext(r.Context(), "render index failed",
			slog.String("error", err.Error()))
	}
}

package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"roi-report/internal/core/port"
	"roi-report/internal/metrics"
)

// Handler contains dependencies and routes. It is an inbound adapter for
// HTTP: it holds the import and statistics usecases, a logger for
// structured logging and the metrics registry. Routes are registered on a
// chi.Router for convenient method handling.
type Handler struct {
	importUC port.ImportUseCase
	statsUC  port.StatisticsUseCase
	metrics  *metrics.Metrics
	logger   *slog.Logger
	router   chi.Router
}

// NewHandler creates a handler with all routes configured. CORS is open to
// any origin since the charting frontend is served from a separate host in
// development.
func NewHandler(importUC port.ImportUseCase, statsUC port.StatisticsUseCase, m *metrics.Metrics, logger *slog.Logger) *Handler {
	h := &Handler{importUC: importUC, statsUC: statsUC, metrics: m, logger: logger}
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(m.Middleware)

	r.Handle("/metrics", m.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/roifiles", func(r chi.Router) {
			r.Post("/import", h.handleImport)
			r.Post("/validate", h.handleValidate)
			r.Get("/template", h.handleTemplate)
		})
		r.Get("/statistics", h.handleStatistics)
		r.Get("/statistics/filters", h.handleFilterOptions)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// response is the JSON envelope every endpoint writes.
type response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

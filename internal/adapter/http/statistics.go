package httpadapter

import (
	"log/slog"
	"net/http"
	"time"

	"roi-report/internal/core/port"
)

// statisticsData nests the result rows one level down, matching the shape
// the charting frontend consumes.
type statisticsData struct {
	Data []port.StatisticsRow `json:"data"`
}

// handleStatistics returns campaigns matching the optional `appName`,
// `bidType`, `country`, `startDate` and `endDate` query parameters.
// Filters are conjunctive; dates are inclusive YYYY-MM-DD bounds. Invalid
// dates produce HTTP 400, internal errors HTTP 500.
func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := port.StatisticsFilter{
		AppName: q.Get("appName"),
		BidType: q.Get("bidType"),
		Country: q.Get("country"),
	}
	for param, dest := range map[string]**time.Time{
		"startDate": &filter.StartDate,
		"endDate":   &filter.EndDate,
	} {
		s := q.Get(param)
		if s == "" {
			continue
		}
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, response{
				Success: false,
				Message: "invalid '" + param + "' date, expected YYYY-MM-DD",
			})
			return
		}
		*dest = &d
	}

	rows, err := h.statsUC.GetStatistics(r.Context(), filter)
	if err != nil {
		h.logger.Error("statistics error", slog.Any("error", err))
		h.writeJSON(w, http.StatusInternalServerError, response{
			Success: false,
			Message: "Internal server error while fetching statistics",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Statistics retrieved successfully",
		Data:    statisticsData{Data: rows},
	})
}

// handleFilterOptions returns the distinct apps, countries and bid types
// for populating UI selectors.
func (h *Handler) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.statsUC.GetFilterOptions(r.Context())
	if err != nil {
		h.logger.Error("filter options error", slog.Any("error", err))
		h.writeJSON(w, http.StatusInternalServerError, response{
			Success: false,
			Message: "Internal server error while fetching filter options",
		})
		return
	}
	h.writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Filter options retrieved successfully",
		Data:    opts,
	})
}

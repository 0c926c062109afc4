package api

import (
	"net/http"
)

// PerformanceHandler serves member ratings.
type PerformanceHandler struct {
	deps Dependencies
}

// NewPerformanceHandler creates a new performance handler.
func NewPerformanceHandler(deps Dependencies) *PerformanceHandler {
	return &PerformanceHandler{deps: deps}
}

// HandleGetRatings handles GET /performance/ratings?period=30d.
func (h *PerformanceHandler) HandleGetRatings(w http.ResponseWriter, r *http.Request) {
	const op = "api.ratings"
	if !allowGet(w, r) {
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "30d"
	}
	report, err := h.deps.Ratings(r.Context(), period)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

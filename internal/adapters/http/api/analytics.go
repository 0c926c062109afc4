package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// AnalyticsHandler serves the trend, department, keyword and stall analyses.
type AnalyticsHandler struct {
	deps Dependencies
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps Dependencies) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps}
}

type departmentsResponse struct {
	Departments []string `json:"departments"`
}

// HandleGetTrends handles GET /analytics/trends?time_range=month&department=all.
func (h *AnalyticsHandler) HandleGetTrends(w http.ResponseWriter, r *http.Request) {
	const op = "api.trends"
	if !allowGet(w, r) {
		return
	}
	q := r.URL.Query()
	timeRange := q.Get("time_range")
	if timeRange == "" {
		timeRange = "month"
	}
	points, err := h.deps.ProductivityTrends(r.Context(), timeRange, q.Get("department"))
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// HandleGetDepartmentMetrics handles GET /analytics/departments.
func (h *AnalyticsHandler) HandleGetDepartmentMetrics(w http.ResponseWriter, r *http.Request) {
	const op = "api.departments"
	if !allowGet(w, r) {
		return
	}
	summaries, err := h.deps.DepartmentMetrics(r.Context())
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// HandleGetDepartments handles GET /analytics/departments/list.
func (h *AnalyticsHandler) HandleGetDepartments(w http.ResponseWriter, r *http.Request) {
	const op = "api.departments_list"
	if !allowGet(w, r) {
		return
	}
	names, err := h.deps.Departments(r.Context())
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, departmentsResponse{Departments: names})
}

// HandleGetVelocity handles GET /analytics/velocity?department=all.
func (h *AnalyticsHandler) HandleGetVelocity(w http.ResponseWriter, r *http.Request) {
	const op = "api.velocity"
	if !allowGet(w, r) {
		return
	}
	points, err := h.deps.Velocity(r.Context(), r.URL.Query().Get("department"))
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// HandleGetOverview handles GET /analytics/overview?period=30d.
func (h *AnalyticsHandler) HandleGetOverview(w http.ResponseWriter, r *http.Request) {
	const op = "api.overview"
	if !allowGet(w, r) {
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "30d"
	}
	ov, err := h.deps.Overview(r.Context(), period)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

// HandleGetKeywords handles GET /analytics/keywords?days=30.
func (h *AnalyticsHandler) HandleGetKeywords(w http.ResponseWriter, r *http.Request) {
	const op = "api.keywords"
	if !allowGet(w, r) {
		return
	}
	days, err := queryInt(op, r, "days")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	report, err := h.deps.RepeatedKeywords(r.Context(), days)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleGetStalls handles GET /analytics/stalls?days=30&threshold=0.85.
func (h *AnalyticsHandler) HandleGetStalls(w http.ResponseWriter, r *http.Request) {
	const op = "api.stalls"
	if !allowGet(w, r) {
		return
	}
	days, err := queryInt(op, r, "days")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var threshold *float64
	if raw := strings.TrimSpace(r.URL.Query().Get("threshold")); raw != "" {
		t, perr := strconv.ParseFloat(raw, 64)
		if perr != nil || math.IsNaN(t) || math.IsInf(t, 0) {
			writeServiceError(w, WrapKind(op, ErrBadRequest, errors.New("invalid threshold")))
			return
		}
		threshold = &t
	}
	report, err := h.deps.Stalls(r.Context(), days, threshold)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/pragati/internal/app"
	"github.com/okian/pragati/internal/domain/model"
	"github.com/okian/pragati/internal/domain/types"
)

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	StatsProvider

	Submit(ctx context.Context, req types.SubmitRequest) (types.SubmitResponse, error)
	History(ctx context.Context, limit int) (types.History, error)

	Ratings(ctx context.Context, period string) (model.PerformanceReport, error)
	ProductivityTrends(ctx context.Context, timeRange, department string) ([]model.TrendPoint, error)
	DepartmentMetrics(ctx context.Context) ([]model.DepartmentSummary, error)
	Departments(ctx context.Context) ([]string, error)
	Velocity(ctx context.Context, department string) ([]model.VelocityPoint, error)
	Overview(ctx context.Context, period string) (model.Overview, error)
	RepeatedKeywords(ctx context.Context, days int) (types.KeywordReport, error)
	Stalls(ctx context.Context, days int, threshold *float64) (model.StallReport, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	updatesHandler     *UpdatesHandler
	performanceHandler *PerformanceHandler
	analyticsHandler   *AnalyticsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		updatesHandler:     NewUpdatesHandler(deps),
		performanceHandler: NewPerformanceHandler(deps),
		analyticsHandler:   NewAnalyticsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleHealth)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/updates", MetricsMiddleware(s.updatesHandler.HandlePostUpdate, "updates"))
	mux.HandleFunc("/history", MetricsMiddleware(s.updatesHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/performance/ratings", MetricsMiddleware(s.performanceHandler.HandleGetRatings, "ratings"))

	a := s.analyticsHandler
	mux.HandleFunc("/analytics/trends", MetricsMiddleware(a.HandleGetTrends, "trends"))
	mux.HandleFunc("/analytics/departments", MetricsMiddleware(a.HandleGetDepartmentMetrics, "departments"))
	mux.HandleFunc("/analytics/departments/list", MetricsMiddleware(a.HandleGetDepartments, "departments_list"))
	mux.HandleFunc("/analytics/velocity", MetricsMiddleware(a.HandleGetVelocity, "velocity"))
	mux.HandleFunc("/analytics/overview", MetricsMiddleware(a.HandleGetOverview, "overview"))
	mux.HandleFunc("/analytics/keywords", MetricsMiddleware(a.HandleGetKeywords, "keywords"))
	mux.HandleFunc("/analytics/stalls", MetricsMiddleware(a.HandleGetStalls, "stalls"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service and handler error kinds to a status.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrBackpressure), errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, ErrUnavailable), errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		// internals stay in the logs
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// allowGet rejects anything but GET with 405.
func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return false
	}
	return true
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(op string, r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, WrapKind(op, ErrBadRequest, errors.New("invalid "+key))
	}
	return n, nil
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/kickbase-analytics/internal/adapters/repository"
	service "github.com/okian/kickbase-analytics/internal/app"
	"github.com/okian/kickbase-analytics/internal/domain/batch"
	"github.com/okian/kickbase-analytics/internal/domain/forecast"
	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/domain/performance"
	"github.com/okian/kickbase-analytics/internal/domain/portfolio"
	"github.com/okian/kickbase-analytics/internal/domain/similarity"
	"github.com/okian/kickbase-analytics/internal/domain/types"
)

const defaultMaxPlayers = 5_000

// Analytics answers synchronous analytics requests.
type Analytics interface {
	Metrics(ctx context.Context, players []model.Player) []performance.Snapshot
	Regression(ctx context.Context, players []model.Player, metric performance.Metric) (types.RegressionReport, error)
	Similar(ctx context.Context, players []model.Player, targetID string, limit int) ([]similarity.Match, error)
	Forecast(ctx context.Context, in types.ForecastInput) (types.ForecastResult, error)
	Portfolio(ctx context.Context, m *model.ManagerPortfolio, players []model.Player) portfolio.Report
	Rankings(ctx context.Context, players []model.Player, metric performance.Metric, scope model.Position, playerID string) (types.RankingReport, error)
}

// Batches accepts league snapshots and serves their reports.
type Batches interface {
	SubmitLeague(ctx context.Context, l *batch.League) (types.Submission, error)
	Report(ctx context.Context, id string) (repository.Report, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Analytics
	Batches
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	analyticsHandler *AnalyticsHandler
	leaguesHandler   *LeaguesHandler
}

// NewServer creates a new API server with all handlers. maxPlayers caps the
// players accepted in one request body; a non-positive value uses the default.
func NewServer(deps Dependencies, maxPlayers int) *Server {
	if maxPlayers < 1 {
		maxPlayers = defaultMaxPlayers
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		analyticsHandler: NewAnalyticsHandler(deps, maxPlayers),
		leaguesHandler:   NewLeaguesHandler(deps, maxPlayers),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	a := s.analyticsHandler
	mux.HandleFunc("POST /v1/metrics", MetricsMiddleware(a.HandleMetrics, "metrics"))
	mux.HandleFunc("POST /v1/regression", MetricsMiddleware(a.HandleRegression, "regression"))
	mux.HandleFunc("POST /v1/similar", MetricsMiddleware(a.HandleSimilar, "similar"))
	mux.HandleFunc("POST /v1/forecast", MetricsMiddleware(a.HandleForecast, "forecast"))
	mux.HandleFunc("POST /v1/portfolio", MetricsMiddleware(a.HandlePortfolio, "portfolio"))
	mux.HandleFunc("POST /v1/rankings", MetricsMiddleware(a.HandleRankings, "rankings"))

	mux.HandleFunc("POST /v1/leagues", MetricsMiddleware(s.leaguesHandler.HandleSubmit, "leagues"))
	mux.HandleFunc("GET /v1/reports/{id}", MetricsMiddleware(s.leaguesHandler.HandleReport, "reports"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before committing the status so an unencodable value
// becomes a 500 rather than an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail translates err into a status code and an error body.
func fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
	case isBadRequest(err):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrNotFound),
		errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrBackpressure), errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func isBadRequest(err error) bool {
	for _, kind := range []error{
		ErrBadRequest,
		model.ErrUnknownPosition,
		model.ErrUnknownStatus,
		model.ErrUnknownResult,
		model.ErrValueOutOfOrder,
		performance.ErrUnknownMetric,
		forecast.ErrUnknownTrend,
		batch.ErrEmptyLeague,
		batch.ErrInvalidManager,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(op string, r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

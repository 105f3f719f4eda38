package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/domain/performance"
	"github.com/okian/kickbase-analytics/internal/domain/types"
)

// AnalyticsHandler serves the synchronous analytics endpoints.
type AnalyticsHandler struct {
	deps       Analytics
	maxPlayers int
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps Analytics, maxPlayers int) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps, maxPlayers: maxPlayers}
}

type playersRequest struct {
	Players []model.Player `json:"players"`
}

func (h *AnalyticsHandler) checkPlayers(op string, players []model.Player) error {
	if len(players) > h.maxPlayers {
		return WrapKind(op, ErrTooLarge, fmt.Errorf("%d players, limit %d", len(players), h.maxPlayers))
	}
	return Wrap(op, model.ValidatePlayers(players))
}

type metricsResponse struct {
	Snapshots []performance.Snapshot `json:"snapshots"`
}

// HandleMetrics handles POST /v1/metrics.
func (h *AnalyticsHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	const op = "api.metrics"
	var req playersRequest
	if err := decode(op, r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := h.checkPlayers(op, req.Players); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metricsResponse{Snapshots: h.deps.Metrics(r.Context(), req.Players)})
}

type regressionRequest struct {
	Players []model.Player     `json:"players"`
	Metric  performance.Metric `json:"metric"`
}

// HandleRegression handles POST /v1/regression.
func (h *AnalyticsHandler) HandleRegression(w http.ResponseWriter, r *http.Request) {
	const op = "api.regression"
	var req regressionRequest
	if err := decode(op, r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := h.checkPlayers(op, req.Players); err != nil {
		fail(w, err)
		return
	}
	rep, err := h.deps.Regression(r.Context(), req.Players, req.Metric)
	if err != nil {
		fail(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type similarRequest struct {
	Players  []model.Player `json:"players"`
	TargetID string         `json:"target_id"`
	Limit    int            `json:"limit"`
}

// HandleSimilar handles POST /v1/similar.
func (h *AnalyticsHandler) HandleSimilar(w http.ResponseWriter, r *http.Request) {
	const op = "api.similar"
	var req similarRequest
	if err := decode(op, r, &req); err != nil {
		fail(w, err)
		return
	}
	if strings.TrimSpace(req.TargetID) == "" {
		fail(w, WrapKind(op, ErrBadRequest, fmt.Errorf("missing target_id")))
		return
	}
	if err := h.checkPlayers(op, req.Players); err != nil {
		fail(w, err)
		return
	}
	matches, err := h.deps.Similar(r.Context(), req.Players, req.TargetID, req.Limit)
	if err != nil {
		fail(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"target_id": req.TargetID, "similar": matches})
}

// HandleForecast handles POST /v1/forecast.
func (h *AnalyticsHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "api.forecast"
	var req types.ForecastInput
	if err := decode(op, r, &req); err != nil {
		fail(w, err)
		return
	}
	if req.Current < 0 {
		fail(w, WrapKind(op, ErrBadRequest, fmt.Errorf("negative current_value")))
		return
	}
	res, err := h.deps.Forecast(r.Context(), req)
	if err != nil {
		fail(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type portfolioRequest struct {
	Manager model.ManagerPortfolio `json:"manager"`
	Players []model.Player         `json:"players"`
}

// HandlePortfolio handles POST /v1/portfolio.
func (h *AnalyticsHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	const op = "api.portfolio"
	var req portfolioRequest
	if err := decode(op, r, &req); err != nil {
		fail(w, err)
		return
	}
	if strings.TrimSpace(req.Manager.ManagerID) == "" {
		fail(w, WrapKind(op, ErrBadRequest, fmt.Errorf("missing manager.manager_id")))
		return
	}
	if err := h.checkPlayers(op, req.Players); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Portfolio(r.Context(), &req.Manager, req.Players))
}

type rankingsRequest struct {
	Players  []model.Player     `json:"players"`
	Metric   performance.Metric `json:"metric"`
	Position *model.Position    `json:"position"`
	PlayerID string             `json:"player_id"`
}

// HandleRankings handles POST /v1/rankings.
func (h *AnalyticsHandler) HandleRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.rankings"
	var req rankingsRequest
	if err := decode(op, r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := h.checkPlayers(op, req.Players); err != nil {
		fail(w, err)
		return
	}
	var scope model.Position
	if req.Position != nil {
		scope = *req.Position
	}
	rep, err := h.deps.Rankings(r.Context(), req.Players, req.Metric, scope, req.PlayerID)
	if err != nil {
		fail(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

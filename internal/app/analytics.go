package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/cohort"
	"github.com/okian/kickbase-analytics/internal/domain/forecast"
	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/domain/performance"
	"github.com/okian/kickbase-analytics/internal/domain/portfolio"
	"github.com/okian/kickbase-analytics/internal/domain/ranking"
	"github.com/okian/kickbase-analytics/internal/domain/regression"
	"github.com/okian/kickbase-analytics/internal/domain/similarity"
	"github.com/okian/kickbase-analytics/internal/domain/types"
	"github.com/okian/kickbase-analytics/pkg/logger"
	"github.com/okian/kickbase-analytics/pkg/metrics"
)

// Engine labels for computation metrics.
const (
	engineMetrics    = "metrics"
	engineRegression = "regression"
	engineSimilarity = "similarity"
	engineForecast   = "forecast"
	enginePortfolio  = "portfolio"
	engineRanking    = "ranking"
)

func observe(engine string, start time.Time) {
	metrics.RecordComputation(engine, float64(time.Since(start).Microseconds())/1000)
}

// Metrics returns one snapshot per player, in input order.
func (s *Service) Metrics(_ context.Context, players []model.Player) []performance.Snapshot {
	defer observe(engineMetrics, time.Now())

	out := make([]performance.Snapshot, len(players))
	for i := range players {
		out[i] = performance.Calculate(&players[i])
	}
	return out
}

// Regression fits value in millions against metric.
func (s *Service) Regression(ctx context.Context, players []model.Player, metric performance.Metric) (types.RegressionReport, error) {
	defer observe(engineRegression, time.Now())

	if metric == "" {
		metric = s.reportMetric
	}
	points := regression.PointsFor(players, metric)
	global := regression.Fit(points)
	if global.Degenerate() {
		metrics.RecordDegenerateResult(engineRegression)
	}
	byPos, err := regression.FitCohorts(ctx, points)
	if err != nil {
		return types.RegressionReport{}, fmt.Errorf("regression: %w", err)
	}
	return types.RegressionReport{
		Metric:    metric,
		Global:    global,
		Positions: byPos,
		Residuals: regression.Residuals(points, global),
		Stats:     cohort.PositionStats(players),
	}, nil
}

// Similar finds cheaper players like targetID. A non-positive limit uses the configured default.
func (s *Service) Similar(_ context.Context, players []model.Player, targetID string, limit int) ([]similarity.Match, error) {
	defer observe(engineSimilarity, time.Now())

	target, ok := model.Index(players)[targetID]
	if !ok {
		return nil, fmt.Errorf("similar %s: %w", targetID, ErrPlayerNotFound)
	}
	if limit <= 0 {
		limit = s.similarLimit
	}
	matches := similarity.Find(target, players, limit)
	if len(matches) == 0 {
		metrics.RecordDegenerateResult(engineSimilarity)
	}
	return matches, nil
}

// Forecast projects a value along a trend.
func (s *Service) Forecast(_ context.Context, in types.ForecastInput) (types.ForecastResult, error) {
	defer observe(engineForecast, time.Now())

	if in.Start.IsZero() {
		in.Start = s.now()
	}
	if in.Horizon <= 0 {
		in.Horizon = s.horizon
	}

	var res types.ForecastResult
	if len(in.Values) > 0 {
		var h model.ValueHistory
		for _, p := range in.Values {
			var err error
			if h, err = h.Append(p); err != nil {
				return types.ForecastResult{}, fmt.Errorf("forecast: %w", err)
			}
		}
		tr := performance.Trends(h, in.Start)
		res.Trends = &tr
		if in.Trend == "" {
			in.Trend = forecast.TrendOf(tr)
		}
		if in.Current == 0 {
			in.Current = tr.Value
		}
	}
	if in.Trend == "" {
		in.Trend = forecast.Stable
	}
	if in.Current == 0 {
		metrics.RecordDegenerateResult(engineForecast)
	}
	res.Series = forecast.New(in.Current, in.Trend, in.Start, in.Horizon)
	return res, nil
}

// Portfolio analyses one manager against the player pool.
func (s *Service) Portfolio(ctx context.Context, m *model.ManagerPortfolio, players []model.Player) portfolio.Report {
	defer observe(enginePortfolio, time.Now())

	r := s.analyzer.Analyze(m, model.Index(players))
	if r.Overdrawn && s.logger != nil {
		s.logger.Warn(ctx, "manager overdrawn",
			logger.String("manager", m.ManagerID),
			logger.Int64("budget", m.Budget),
		)
	}
	return r
}

// Rankings orders players by metric, optionally within one position.
// A non-empty playerID adds that player's profile.
func (s *Service) Rankings(_ context.Context, players []model.Player, metric performance.Metric, scope model.Position, playerID string) (types.RankingReport, error) {
	defer observe(engineRanking, time.Now())

	if metric == "" {
		metric = s.reportMetric
	}
	out := types.RankingReport{Metric: metric, Entries: ranking.Table(players, metric, scope)}
	if scope != 0 {
		out.Position = &scope
	}
	if playerID != "" {
		p, err := ranking.ProfileOf(players, playerID)
		if err != nil {
			return types.RankingReport{}, fmt.Errorf("rankings: %w: %w", ErrPlayerNotFound, err)
		}
		out.Profile = &p
	}
	return out, nil
}

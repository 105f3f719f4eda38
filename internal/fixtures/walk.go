package fixtures

import (
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/kickbase-analytics/internal/domain/forecast"
	"github.com/okian/kickbase-analytics/internal/domain/model"
)

const (
	daysPerWeek = 7
	bandLow     = 0.05
	bandHigh    = 0.95
)

// Walk simulates days daily market values after start as a geometric random
// walk. The drift matches trend's weekly factor and volatility is the daily
// standard deviation of log returns; zero volatility reproduces the
// deterministic forecast.
func (g *Generator) Walk(current int64, trend forecast.Trend, start time.Time, days int, volatility float64) model.ValueHistory {
	if days <= 0 {
		return nil
	}
	drift := math.Log(trend.Factor()) / daysPerWeek
	day := model.Day(start)
	v := float64(current)

	out := make(model.ValueHistory, 0, days)
	for d := 1; d <= days; d++ {
		v *= math.Exp(drift + volatility*g.r.NormFloat64())
		out = append(out, model.ValueHistoryPoint{
			Date:  day.AddDate(0, 0, d),
			Value: int64(math.Round(v)),
		})
	}
	return out
}

// Simulate runs n random walks and summarises them per day: Value is the mean
// path and the confidence band spans the 5th to 95th percentile.
func (g *Generator) Simulate(current int64, trend forecast.Trend, start time.Time, horizon, n int, volatility float64) []forecast.Point {
	if horizon <= 0 {
		horizon = forecast.DefaultHorizon
	}
	if n < 1 {
		return nil
	}

	byDay := make([][]float64, horizon)
	for range n {
		for i, p := range g.Walk(current, trend, start, horizon, volatility) {
			byDay[i] = append(byDay[i], float64(p.Value))
		}
	}

	day := model.Day(start)
	out := make([]forecast.Point, horizon)
	for i, xs := range byDay {
		slices.Sort(xs)
		out[i] = forecast.Point{
			Day:            i + 1,
			Date:           day.AddDate(0, 0, i+1),
			Value:          stat.Mean(xs, nil),
			ConfidenceLow:  stat.Quantile(bandLow, stat.Empirical, xs, nil),
			ConfidenceHigh: stat.Quantile(bandHigh, stat.Empirical, xs, nil),
		}
	}
	return out
}

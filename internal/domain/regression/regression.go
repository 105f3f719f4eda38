// Package regression fits ordinary least squares lines of a metric against
// market value, for a whole pool or per position cohort.
package regression

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/domain/performance"
)

const millions = 1_000_000

// Point is one scatter observation: X is market value in millions.
type Point struct {
	PlayerID string         `json:"player_id"`
	Position model.Position `json:"position"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
}

// LinePoint is an endpoint of the fitted line.
type LinePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Model is a fitted line. A degenerate model has zero coefficients and no line.
type Model struct {
	Slope     float64     `json:"slope"`
	Intercept float64     `json:"intercept"`
	R2        float64     `json:"r2"`
	Line      []LinePoint `json:"line"`
	N         int         `json:"n"`
}

// Degenerate reports whether the model was fitted on fewer than two points.
func (m Model) Degenerate() bool {
	return len(m.Line) == 0
}

// Predict evaluates the fitted line at x.
func (m Model) Predict(x float64) float64 {
	return m.Slope*x + m.Intercept
}

// Fit computes the least squares line through points.
func Fit(points []Point) Model {
	n := len(points)
	if n < 2 {
		return Model{Line: []LinePoint{}, N: n}
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}

	m := Model{N: n}
	meanX := stat.Mean(xs, nil)
	meanY := stat.Mean(ys, nil)
	if sumSquares(xs, meanX) != 0 {
		m.Intercept, m.Slope = stat.LinearRegression(xs, ys, nil, false)
	} else {
		m.Intercept = meanY
	}
	if sumSquares(ys, meanY) != 0 {
		m.R2 = stat.RSquared(xs, ys, nil, m.Intercept, m.Slope)
	}

	minX, maxX := floats.Min(xs), floats.Max(xs)
	m.Line = []LinePoint{
		{X: minX, Y: m.Predict(minX)},
		{X: maxX, Y: m.Predict(maxX)},
	}
	return m
}

// FitCohorts fits every position present in points independently and in
// parallel. It stops at a cohort boundary when ctx is cancelled.
func FitCohorts(ctx context.Context, points []Point) (map[model.Position]Model, error) {
	byPos := make(map[model.Position][]Point, len(model.Positions()))
	for _, p := range points {
		byPos[p.Position] = append(byPos[p.Position], p)
	}

	var (
		mu  sync.Mutex
		out = make(map[model.Position]Model, len(byPos))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, pos := range model.Positions() {
		cohort := byPos[pos]
		if len(cohort) == 0 {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("fit %s: %w", pos, err)
			}
			m := Fit(cohort)
			mu.Lock()
			out[pos] = m
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// PointsFor maps players to scatter points of metric against market value.
func PointsFor(players []model.Player, metric performance.Metric) []Point {
	out := make([]Point, len(players))
	for i := range players {
		p := &players[i]
		s := performance.Calculate(p)
		out[i] = Point{
			PlayerID: p.ID,
			Position: p.Position,
			X:        float64(p.MarketValue) / millions,
			Y:        metric.Of(p.TotalPoints, p.MarketValue, &s),
		}
	}
	return out
}

// Residual is how far a player's metric sits above the fitted line.
// Positive means the player returns more than its price suggests.
type Residual struct {
	PlayerID  string  `json:"player_id"`
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
	Residual  float64 `json:"residual"`
}

// Residuals evaluates m against every point, best over-performers first.
func Residuals(points []Point, m Model) []Residual {
	out := make([]Residual, len(points))
	for i, p := range points {
		pred := m.Predict(p.X)
		out[i] = Residual{PlayerID: p.PlayerID, Actual: p.Y, Predicted: pred, Residual: p.Y - pred}
	}
	slices.SortFunc(out, func(a, b Residual) int {
		if c := cmp.Compare(b.Residual, a.Residual); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	return out
}

func sumSquares(xs []float64, mean float64) float64 {
	var s float64
	for _, x := range xs {
		d := x - mean
		s += d * d
	}
	if math.IsNaN(s) {
		return 0
	}
	return s
}

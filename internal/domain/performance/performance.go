// Package performance derives per-player metrics from raw performance history.
//
// Every function is pure: a Snapshot is rebuilt from the Player record on
// each call and never partially updated.
package performance

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/kickbase-analytics/internal/domain/model"
)

// Window sizes and thresholds.
const (
	FormWindow   = 5
	ShortWindow  = 3
	minutesPer90 = 90
	valueUnit    = 1_000_000
	risingCutoff = 0.15
	slightCutoff = 0.05
	percentScale = 100
)

// Snapshot bundles the derived values of one player at one point in time.
type Snapshot struct {
	PlayerID string `json:"player_id"`

	AvgPoints        float64 `json:"avg_points"`
	SeasonAvg        float64 `json:"season_avg"`
	PPM              float64 `json:"ppm"`
	PointsPerMinute  float64 `json:"points_per_minute"`
	PointsPer90      float64 `json:"points_per_90"`
	EurosPerPoint    float64 `json:"euros_per_point"`
	HasEurosPerPoint bool    `json:"has_euros_per_point"`

	Form      float64   `json:"form"`
	AvgLast3  float64   `json:"avg_last_3"`
	FormDiff  float64   `json:"form_diff"`
	FormTrend FormTrend `json:"form_trend"`
	Stability float64   `json:"stability"`

	HomeAvg           float64 `json:"home_avg"`
	AwayAvg           float64 `json:"away_avg"`
	AvgPointsWin      float64 `json:"avg_points_win"`
	AvgPointsDraw     float64 `json:"avg_points_draw"`
	AvgPointsLoss     float64 `json:"avg_points_loss"`
	ResultSensitivity float64 `json:"result_sensitivity"`
}

// Calculate derives a Snapshot for p.
func Calculate(p *model.Player) Snapshot {
	points := p.Points()
	avg := AvgPoints(p.TotalPoints, p.Appearances)
	form := tailMean(points, FormWindow)

	s := Snapshot{
		PlayerID:        p.ID,
		AvgPoints:       avg,
		SeasonAvg:       avg,
		PPM:             PPM(p.TotalPoints, p.MarketValue),
		PointsPerMinute: PointsPerMinute(p.TotalPoints, p.Minutes()),
		Form:            form,
		AvgLast3:        tailMean(points, ShortWindow),
		FormDiff:        form - avg,
		FormTrend:       ClassifyTrend(form, avg),
		Stability:       Stability(points),
		HomeAvg:         ratio(float64(p.HomePoints), float64(p.HomeGames)),
		AwayAvg:         ratio(float64(p.AwayPoints), float64(p.AwayGames)),
	}
	s.PointsPer90 = s.PointsPerMinute * minutesPer90
	if avg > 0 {
		s.EurosPerPoint = float64(p.MarketValue) / avg
		s.HasEurosPerPoint = true
	}

	s.AvgPointsWin, s.AvgPointsDraw, s.AvgPointsLoss = resultAverages(p.History)
	s.ResultSensitivity = ResultSensitivity(s.AvgPointsWin, s.AvgPointsLoss, avg)
	return s
}

// CalculateAll derives snapshots for every player, keyed by id.
func CalculateAll(players []model.Player) map[string]Snapshot {
	out := make(map[string]Snapshot, len(players))
	for i := range players {
		out[players[i].ID] = Calculate(&players[i])
	}
	return out
}

// AvgPoints is total/appearances, 0 without appearances.
func AvgPoints(total, appearances int) float64 {
	return ratio(float64(total), float64(appearances))
}

// PPM is points per million of market value.
func PPM(total int, marketValue int64) float64 {
	if marketValue <= 0 {
		return 0
	}
	return float64(total) / (float64(marketValue) / valueUnit)
}

// PointsPerMinute is total/minutes, 0 without minutes.
func PointsPerMinute(total, minutes int) float64 {
	return ratio(float64(total), float64(minutes))
}

// Stability is the population standard deviation of the point sequence.
// Lower is more consistent.
func Stability(points []float64) float64 {
	if len(points) == 0 {
		return 0
	}
	return stat.PopStdDev(points, nil)
}

// ResultSensitivity is how much more a player scores in wins than in losses,
// as a percentage of the season average.
func ResultSensitivity(avgWin, avgLoss, avg float64) float64 {
	if avg <= 0 {
		return 0
	}
	return (avgWin - avgLoss) / avg * percentScale
}

// ChangePct expresses delta against the value before the change:
// current-delta is the prior value.
func ChangePct(delta, current int64) float64 {
	prior := current - delta
	if prior == 0 {
		return 0
	}
	return float64(delta) / float64(prior) * percentScale
}

func tailMean(xs []float64, window int) float64 {
	if len(xs) == 0 {
		return 0
	}
	if len(xs) > window {
		xs = xs[len(xs)-window:]
	}
	return stat.Mean(xs, nil)
}

func resultAverages(history []model.MatchdayPoints) (win, draw, loss float64) {
	var sum, n [3]float64
	for _, md := range history {
		var i int
		switch md.Result {
		case model.ResultWin:
			i = 0
		case model.ResultDraw:
			i = 1
		case model.ResultLoss:
			i = 2
		default:
			continue
		}
		sum[i] += float64(md.Points)
		n[i]++
	}
	return ratio(sum[0], n[0]), ratio(sum[1], n[1]), ratio(sum[2], n[2])
}

func ratio(num, den float64) float64 {
	if den == 0 || math.IsNaN(den) {
		return 0
	}
	return num / den
}

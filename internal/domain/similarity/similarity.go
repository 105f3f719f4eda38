// Package similarity recommends cheaper players that perform like a target.
package similarity

import (
	"cmp"
	"math"
	"slices"

	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/domain/performance"
)

// DefaultLimit is the number of matches returned when no limit is given.
const DefaultLimit = 5

// Dimension weights of the combined distance.
const (
	pointsWeight = 0.4
	formWeight   = 0.3
	ppmWeight    = 0.3
)

// Match is one recommended candidate.
type Match struct {
	PlayerID    string  `json:"player_id"`
	Name        string  `json:"name,omitempty"`
	MarketValue int64   `json:"market_value"`
	Similarity  int     `json:"similarity"`
	PriceDiff   int64   `json:"price_diff"`
	PointsDiff  float64 `json:"points_diff"`
}

// Find ranks cheaper players of the target's position by similarity of
// average points, form and points per million. limit <= 0 means DefaultLimit.
func Find(target *model.Player, pool []model.Player, limit int) []Match {
	if limit <= 0 {
		limit = DefaultLimit
	}
	ts := performance.Calculate(target)

	out := make([]Match, 0, len(pool))
	for i := range pool {
		c := &pool[i]
		if c.ID == target.ID || c.Position != target.Position || c.MarketValue >= target.MarketValue {
			continue
		}
		cs := performance.Calculate(c)
		out = append(out, Match{
			PlayerID:    c.ID,
			Name:        c.Name,
			MarketValue: c.MarketValue,
			Similarity:  Score(&ts, &cs),
			PriceDiff:   c.MarketValue - target.MarketValue,
			PointsDiff:  cs.AvgPoints - ts.AvgPoints,
		})
	}

	slices.SortFunc(out, func(a, b Match) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Score is 100 for an identical candidate and falls towards 0 as the
// weighted relative distance grows. It never goes below 0.
func Score(target, candidate *performance.Snapshot) int {
	d := pointsWeight*relDiff(candidate.AvgPoints, target.AvgPoints) +
		formWeight*relDiff(candidate.Form, target.Form) +
		ppmWeight*relDiff(candidate.PPM, target.PPM)
	return max(0, int(math.Round((1-d)*100)))
}

func relDiff(v, ref float64) float64 {
	div := ref
	if div == 0 {
		div = 1
	}
	return math.Abs(v-ref) / div
}

// Package cohort groups players by roster position.
package cohort

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/domain/performance"
)

const millions = 1_000_000

// Groups holds one slice per position. Every position has an entry, possibly empty.
type Groups map[model.Position][]model.Player

// Group splits players into the four position cohorts, preserving input order.
// Players with an invalid position are dropped.
func Group(players []model.Player) Groups {
	g := make(Groups, len(model.Positions()))
	for _, pos := range model.Positions() {
		g[pos] = nil
	}
	for _, p := range players {
		switch p.Position {
		case model.GK, model.DEF, model.MID, model.FWD:
			g[p.Position] = append(g[p.Position], p)
		}
	}
	return g
}

// Scope keeps only the players of pos. A zero pos keeps everyone.
func Scope(players []model.Player, pos model.Position) []model.Player {
	if pos == 0 {
		return players
	}
	return slices.DeleteFunc(slices.Clone(players), func(p model.Player) bool {
		return p.Position != pos
	})
}

// Stats summarises one position cohort.
type Stats struct {
	Position       model.Position `json:"position"`
	Count          int            `json:"count"`
	AvgMarketValue float64        `json:"avg_market_value"`
	AvgPoints      float64        `json:"avg_points"`
	AvgPPM         float64        `json:"avg_ppm"`
	MinValue       float64        `json:"min_value"`
	MaxValue       float64        `json:"max_value"`
	MinPoints      float64        `json:"min_points"`
	MaxPoints      float64        `json:"max_points"`
}

// PositionStats summarises every non-empty cohort in position order.
// Market values are expressed in millions.
func PositionStats(players []model.Player) []Stats {
	groups := Group(players)
	out := make([]Stats, 0, len(groups))
	for _, pos := range model.Positions() {
		if len(groups[pos]) == 0 {
			continue
		}
		out = append(out, statsFor(pos, groups[pos]))
	}
	return out
}

func statsFor(pos model.Position, players []model.Player) Stats {
	values := make([]float64, len(players))
	points := make([]float64, len(players))
	ppms := make([]float64, len(players))
	for i := range players {
		s := performance.Calculate(&players[i])
		values[i] = float64(players[i].MarketValue) / millions
		points[i] = s.AvgPoints
		ppms[i] = s.PPM
	}
	return Stats{
		Position:       pos,
		Count:          len(players),
		AvgMarketValue: stat.Mean(values, nil),
		AvgPoints:      stat.Mean(points, nil),
		AvgPPM:         stat.Mean(ppms, nil),
		MinValue:       floats.Min(values),
		MaxValue:       floats.Max(values),
		MinPoints:      floats.Min(points),
		MaxPoints:      floats.Max(points),
	}
}

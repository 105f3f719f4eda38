// Package ranking orders a pool of players by a metric and reports rank and
// percentile. Every call builds its own index; nothing is shared between calls.
package ranking

import (
	"fmt"
	"math"

	"github.com/okian/kickbase-analytics/internal/domain/cohort"
	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/domain/performance"
)

// Entry is one row of a ranking table.
type Entry struct {
	Rank       int            `json:"rank"`
	PlayerID   string         `json:"player_id"`
	Position   model.Position `json:"position"`
	Value      float64        `json:"value"`
	Percentile int            `json:"percentile"`
	Total      int            `json:"total"`
}

// Percentile is round((total-rank)/total*100), 0 for an empty pool.
func Percentile(rank, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(total-rank) / float64(total) * 100))
}

type index struct {
	root  *node
	pos   map[string]model.Position
	value map[string]float64
	total int
}

// score returns a player's ranking value; false leaves the player out of the
// pool. Higher values rank first.
type score func(p *model.Player, s *performance.Snapshot) (float64, bool)

func byMetric(metric performance.Metric) score {
	return func(p *model.Player, s *performance.Snapshot) (float64, bool) {
		return metric.Of(p.TotalPoints, p.MarketValue, s), true
	}
}

// cheapest ranks on euros per point, lowest first. Players without points
// have no price per point and sit outside the pool.
func cheapest(_ *model.Player, s *performance.Snapshot) (float64, bool) {
	return -s.EurosPerPoint, s.HasEurosPerPoint
}

func build(players []model.Player, by score, scope model.Position) *index {
	pool := cohort.Scope(players, scope)
	ix := &index{
		pos:   make(map[string]model.Position, len(pool)),
		value: make(map[string]float64, len(pool)),
	}
	seen := make(map[string]bool, len(pool))
	for i := range pool {
		p := &pool[i]
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		s := performance.Calculate(p)
		v, ok := by(p, &s)
		if !ok {
			continue
		}
		if math.IsNaN(v) {
			v = 0
		}
		ix.root = insert(ix.root, p.ID, v)
		ix.pos[p.ID] = p.Position
		ix.value[p.ID] = v
		ix.total++
	}
	return ix
}

func (ix *index) entry(id string, rank int) Entry {
	return Entry{
		Rank:       rank,
		PlayerID:   id,
		Position:   ix.pos[id],
		Value:      ix.value[id],
		Percentile: Percentile(rank, ix.total),
		Total:      ix.total,
	}
}

// Table ranks the pool by metric, highest first with ties by ascending id.
// A non-zero scope restricts the pool to one position. Duplicate ids keep
// their first record.
//
// Every metric is ordered descending, including euros_per_point, where rank 1
// is therefore the most expensive player per point. Efficiency on the
// player profile ranks the other way round.
func Table(players []model.Player, metric performance.Metric, scope model.Position) []Entry {
	ix := build(players, byMetric(metric), scope)
	out := make([]Entry, 0, ix.total)
	walk(ix.root, func(n *node) {
		out = append(out, ix.entry(n.id, len(out)+1))
	})
	return out
}

// Rank returns the entry of one player.
func Rank(players []model.Player, metric performance.Metric, scope model.Position, id string) (Entry, error) {
	return rank(build(players, byMetric(metric), scope), id)
}

func rank(ix *index, id string) (Entry, error) {
	v, ok := ix.value[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return ix.entry(id, position(ix.root, id, v)+1), nil
}

// Standing is a player's rank in the whole pool and within its position.
type Standing struct {
	Rank          int `json:"rank"`
	Total         int `json:"total"`
	PositionRank  int `json:"position_rank"`
	PositionTotal int `json:"position_total"`
	Percentile    int `json:"percentile"`
}

// Efficiency is a player's price per point and where it ranks, cheapest
// first, among players who have scored.
type Efficiency struct {
	EurosPerPoint float64 `json:"euros_per_point"`
	PointsPer90   float64 `json:"points_per_90"`
	Rank          int     `json:"rank"`
	Total         int     `json:"total"`
	PositionRank  int     `json:"position_rank"`
	PositionTotal int     `json:"position_total"`
	BetterThanPct float64 `json:"better_than_pct"`
}

// Profile is a player's standing on the headline metrics. Efficiency is nil
// for a player without points.
type Profile struct {
	PlayerID    string      `json:"player_id"`
	TotalPoints Standing    `json:"total_points"`
	AvgPoints   Standing    `json:"avg_points"`
	MarketValue Standing    `json:"market_value"`
	Efficiency  *Efficiency `json:"efficiency,omitempty"`
}

// BetterThan is the share of the pool ranked below rank, to one decimal.
func BetterThan(rank, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(total-rank)/float64(total)*1000) / 10
}

func efficiencyOf(players []model.Player, target *model.Player) (*Efficiency, error) {
	s := performance.Calculate(target)
	if !s.HasEurosPerPoint {
		return nil, nil
	}
	g, err := rank(build(players, cheapest, 0), target.ID)
	if err != nil {
		return nil, err
	}
	p, err := rank(build(players, cheapest, target.Position), target.ID)
	if err != nil {
		return nil, err
	}
	return &Efficiency{
		EurosPerPoint: s.EurosPerPoint,
		PointsPer90:   s.PointsPer90,
		Rank:          g.Rank,
		Total:         g.Total,
		PositionRank:  p.Rank,
		PositionTotal: p.Total,
		BetterThanPct: BetterThan(g.Rank, g.Total),
	}, nil
}

// ProfileOf ranks a player globally and within its position.
func ProfileOf(players []model.Player, id string) (Profile, error) {
	var target *model.Player
	for i := range players {
		if players[i].ID == id {
			target = &players[i]
			break
		}
	}
	if target == nil {
		return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	standing := func(m performance.Metric) (Standing, error) {
		g, err := Rank(players, m, 0, id)
		if err != nil {
			return Standing{}, err
		}
		p, err := Rank(players, m, target.Position, id)
		if err != nil {
			return Standing{}, err
		}
		return Standing{
			Rank:          g.Rank,
			Total:         g.Total,
			PositionRank:  p.Rank,
			PositionTotal: p.Total,
			Percentile:    g.Percentile,
		}, nil
	}

	out := Profile{PlayerID: id}
	var err error
	if out.TotalPoints, err = standing(performance.MetricTotalPoints); err != nil {
		return Profile{}, err
	}
	if out.AvgPoints, err = standing(performance.MetricAvgPoints); err != nil {
		return Profile{}, err
	}
	if out.MarketValue, err = standing(performance.MetricMarketValue); err != nil {
		return Profile{}, err
	}
	if out.Efficiency, err = efficiencyOf(players, target); err != nil {
		return Profile{}, err
	}
	return out, nil
}

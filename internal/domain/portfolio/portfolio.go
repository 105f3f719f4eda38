// Package portfolio aggregates a manager's finances, squad and trading record.
package portfolio

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/domain/performance"
)

// Defaults.
const (
	DefaultMaxSingleBuyRatio  = 0.7
	DefaultMatchdaysPerSeason = 17
	DefaultPickCount          = 3
)

var hundred = decimal.NewFromInt(100)

// Analyzer computes portfolio analytics. It holds configuration only.
type Analyzer struct {
	maxSingleBuy decimal.Decimal
	matchdays    int
	picks        int
	now          func() time.Time
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		maxSingleBuy: decimal.NewFromFloat(DefaultMaxSingleBuyRatio),
		matchdays:    DefaultMatchdaysPerSeason,
		picks:        DefaultPickCount,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Report is the full analysis of one manager.
type Report struct {
	ManagerID  string             `json:"manager_id"`
	Investment InvestmentCapacity `json:"investment"`
	Bench      BenchStrength      `json:"bench"`
	Trader     TraderStats        `json:"trader"`
	Stats      ManagerStats       `json:"stats"`
	Activity   Activity           `json:"activity"`
	Cash       CashFlow           `json:"cash"`
	Holdings   []Holding          `json:"holdings"`
	Formation  string             `json:"formation"`
	Picks      ValuePicks         `json:"value_picks"`
	Overdrawn  bool               `json:"overdrawn"`
}

// Analyze runs every portfolio computation for m. players resolves owned and
// traded player ids; unknown ids are skipped.
func (a *Analyzer) Analyze(m *model.ManagerPortfolio, players map[string]*model.Player) Report {
	owned := resolve(m.Owned, players)
	return Report{
		ManagerID:  m.ManagerID,
		Investment: a.Investment(m.Budget, owned),
		Bench:      Bench(resolve(m.Starting, players), resolve(m.Bench(), players)),
		Trader:     Trader(m.ManagerID, m.Ledger, players),
		Stats:      Stats(m.Matchdays),
		Activity:   a.Activity(m.ManagerID, m.Ledger),
		Cash:       a.Cash(m, owned),
		Holdings:   Holdings(m, players),
		Formation:  Formation(resolve(m.Starting, players)),
		Picks:      a.ValuePicks(owned),
		Overdrawn:  m.Overdrawn(),
	}
}

// InvestmentCapacity is what a manager could spend right now.
type InvestmentCapacity struct {
	Budget             int64 `json:"budget"`
	SellableValue      int64 `json:"sellable_value"`
	TotalSpendingPower int64 `json:"total_spending_power"`
	MaxSingleBuy       int64 `json:"max_single_buy"`
}

// Investment sums the squad value on top of the budget and caps a single
// buy at the configured share of the total, rounded down to whole euros.
func (a *Analyzer) Investment(budget int64, owned []*model.Player) InvestmentCapacity {
	var sellable int64
	for _, p := range owned {
		sellable += p.MarketValue
	}
	total := budget + sellable
	return InvestmentCapacity{
		Budget:             budget,
		SellableValue:      sellable,
		TotalSpendingPower: total,
		MaxSingleBuy:       decimal.NewFromInt(total).Mul(a.maxSingleBuy).Floor().IntPart(),
	}
}

// BenchStrength compares the bench to the starting line-up on total points.
type BenchStrength struct {
	StartingTotalPoints int     `json:"starting_total_points"`
	StartingAvgPoints   float64 `json:"starting_avg_points"`
	BenchTotalPoints    int     `json:"bench_total_points"`
	BenchAvgPoints      float64 `json:"bench_avg_points"`
	BenchTotalValue     int64   `json:"bench_total_value"`
	BenchPlayerCount    int     `json:"bench_player_count"`
	Ratio               float64 `json:"bench_vs_starting_ratio"`
}

// Bench computes bench strength. Empty groups average to 0.
func Bench(starting, bench []*model.Player) BenchStrength {
	var b BenchStrength
	for _, p := range starting {
		b.StartingTotalPoints += p.TotalPoints
	}
	for _, p := range bench {
		b.BenchTotalPoints += p.TotalPoints
		b.BenchTotalValue += p.MarketValue
	}
	b.BenchPlayerCount = len(bench)
	if len(starting) > 0 {
		b.StartingAvgPoints = float64(b.StartingTotalPoints) / float64(len(starting))
	}
	if len(bench) > 0 {
		b.BenchAvgPoints = float64(b.BenchTotalPoints) / float64(len(bench))
	}
	if b.StartingAvgPoints != 0 {
		b.Ratio = b.BenchAvgPoints / b.StartingAvgPoints
	}
	return b
}

// ManagerStats summarises matchday results.
type ManagerStats struct {
	AvgPointsPerMatchday float64              `json:"avg_points_per_matchday"`
	Best                 model.MatchdayResult `json:"best_matchday"`
	Worst                model.MatchdayResult `json:"worst_matchday"`
	Consistency          float64              `json:"consistency"`
	MatchdayWins         int                  `json:"matchday_wins"`
	Top3Finishes         int                  `json:"top3_finishes"`
	MatchdaysPlayed      int                  `json:"total_matchdays_played"`
}

// Stats summarises history. The first of equal best or worst matchdays wins.
func Stats(history []model.MatchdayResult) ManagerStats {
	if len(history) == 0 {
		return ManagerStats{}
	}
	points := make([]float64, len(history))
	s := ManagerStats{Best: history[0], Worst: history[0], MatchdaysPlayed: len(history)}
	for i, h := range history {
		points[i] = float64(h.Points)
		if h.Points > s.Best.Points {
			s.Best = h
		}
		if h.Points < s.Worst.Points {
			s.Worst = h
		}
		if h.Rank == 1 {
			s.MatchdayWins++
		}
		if h.Rank >= 1 && h.Rank <= 3 {
			s.Top3Finishes++
		}
	}
	s.AvgPointsPerMatchday = stat.Mean(points, nil)
	s.Consistency = stat.PopStdDev(points, nil)
	return s
}

// Formation renders the starting line-up as defenders-midfielders-forwards.
func Formation(starting []*model.Player) string {
	var def, mid, fwd int
	for _, p := range starting {
		switch p.Position {
		case model.DEF:
			def++
		case model.MID:
			mid++
		case model.FWD:
			fwd++
		case model.GK:
		}
	}
	return fmt.Sprintf("%d-%d-%d", def, mid, fwd)
}

// Pick is a player with its price per point.
type Pick struct {
	PlayerID      string  `json:"player_id"`
	Name          string  `json:"name,omitempty"`
	EurosPerPoint float64 `json:"euros_per_point"`
}

// ValuePicks lists the cheapest and dearest players per point.
type ValuePicks struct {
	Best  []Pick `json:"best"`
	Worst []Pick `json:"worst"`
}

// ValuePicks ranks players by euros per point. Players without points are left out.
func (a *Analyzer) ValuePicks(players []*model.Player) ValuePicks {
	picks := make([]Pick, 0, len(players))
	for _, p := range players {
		s := performance.Calculate(p)
		if !s.HasEurosPerPoint {
			continue
		}
		picks = append(picks, Pick{PlayerID: p.ID, Name: p.Name, EurosPerPoint: s.EurosPerPoint})
	}
	n := min(a.picks, len(picks))

	slices.SortFunc(picks, func(x, y Pick) int {
		if c := cmp.Compare(x.EurosPerPoint, y.EurosPerPoint); c != 0 {
			return c
		}
		return cmp.Compare(x.PlayerID, y.PlayerID)
	})
	best := slices.Clone(picks[:n])

	slices.SortFunc(picks, func(x, y Pick) int {
		if c := cmp.Compare(y.EurosPerPoint, x.EurosPerPoint); c != 0 {
			return c
		}
		return cmp.Compare(x.PlayerID, y.PlayerID)
	})
	return ValuePicks{Best: best, Worst: slices.Clone(picks[:n])}
}

func resolve(ids []string, players map[string]*model.Player) []*model.Player {
	out := make([]*model.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := players[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Package fixtures generates synthetic league snapshots and drives them
// through a running service. All randomness comes from an injected
// *rand.Rand so a seed reproduces the same league.
package fixtures

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/okian/kickbase-analytics/internal/domain/batch"
	"github.com/okian/kickbase-analytics/internal/domain/forecast"
	"github.com/okian/kickbase-analytics/internal/domain/model"
)

// Generation defaults.
const (
	DefaultMatchdays = 12
	DefaultValueDays = 30
	DefaultTeams     = 18

	squadSize     = 15
	lineupSize    = 11
	startBudget   = 150_000_000
	valueStep     = 10_000
	minValue      = 500_000
	ledgerDays    = 60
	sellChance    = 0.25
	dailyVol      = 0.015
	benchChance   = 0.15
	subChance     = 0.15
	fullMatch     = 90
	pointsSpread  = 40.0
	valuePerPoint = 100_000.0
)

// Per position: mean points per appearance and share of the player pool.
var (
	basePoints = map[model.Position]float64{model.GK: 60, model.DEF: 70, model.MID: 80, model.FWD: 90}
	poolShare  = []model.Position{
		model.GK,
		model.DEF, model.DEF, model.DEF,
		model.MID, model.MID, model.MID,
		model.FWD, model.FWD,
	}
	trends = []forecast.Trend{forecast.Up, forecast.Stable, forecast.Down}
)

// Generator builds deterministic league snapshots from a seeded source.
// It is not safe for concurrent use.
type Generator struct {
	r         *rand.Rand
	ids       reader
	asOf      time.Time
	matchdays int
	valueDays int
	teams     int
}

// NewGenerator creates a generator drawing from r.
func NewGenerator(r *rand.Rand, opts ...Option) *Generator {
	g := &Generator{
		r:         r,
		ids:       reader{r: r},
		asOf:      model.Day(time.Now()),
		matchdays: DefaultMatchdays,
		valueDays: DefaultValueDays,
		teams:     DefaultTeams,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewRand returns a PCG-backed source for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// ID returns a random (version 4) UUID drawn from the generator's source.
func (g *Generator) ID() string {
	return uuid.Must(uuid.NewRandomFromReader(g.ids)).String()
}

// League generates a snapshot with the given number of players and managers.
func (g *Generator) League(players, managers int) (batch.League, error) {
	if players < 1 {
		return batch.League{}, fmt.Errorf("%w: %d players", ErrInvalidSize, players)
	}
	if managers < 0 {
		return batch.League{}, fmt.Errorf("%w: %d managers", ErrInvalidSize, managers)
	}

	l := batch.League{
		ID:      "league-" + g.ID(),
		AsOf:    g.asOf,
		Players: make([]model.Player, players),
	}
	for i := range players {
		l.Players[i] = g.Player(i)
	}

	owners := g.r.Perm(players)
	for i := range managers {
		n := min(squadSize, len(owners))
		m, err := g.manager(i, owners[:n], l.Players)
		if err != nil {
			return batch.League{}, err
		}
		owners = owners[n:]
		l.Managers = append(l.Managers, m)
	}
	g.score(l.Managers, model.Index(l.Players))
	return l, nil
}

// Player generates the i-th player of a pool. Positions cycle through the
// usual squad shape so every position is represented once i reaches 8.
func (g *Generator) Player(i int) model.Player {
	pos := poolShare[i%len(poolShare)]
	quality := 0.5 + g.r.Float64()

	p := model.Player{
		ID:       g.ID(),
		Name:     fmt.Sprintf("Player %03d", i+1),
		TeamID:   fmt.Sprintf("team-%02d", i%g.teams+1),
		Position: pos,
		Status:   g.status(),
		History:  make([]model.MatchdayPoints, 0, g.matchdays),
	}
	for md := 1; md <= g.matchdays; md++ {
		p.History = append(p.History, g.matchday(md, i, basePoints[pos]*quality))
	}
	for _, md := range p.History {
		p.TotalPoints += md.Points
		if md.Minutes > 0 {
			p.Appearances++
		}
		if md.Home {
			p.HomePoints += md.Points
			p.HomeGames++
		} else {
			p.AwayPoints += md.Points
			p.AwayGames++
		}
	}

	base := math.Max(minValue, basePoints[pos]*quality*valuePerPoint)
	trend := trends[g.r.IntN(len(trends))]
	start := g.asOf.AddDate(0, 0, -g.valueDays)
	p.Values = g.Walk(round(base), trend, start, g.valueDays, dailyVol)
	if last, ok := p.Values.Latest(); ok {
		p.MarketValue = last.Value
	}
	return p
}

func (g *Generator) matchday(md, team int, mean float64) model.MatchdayPoints {
	out := model.MatchdayPoints{
		Matchday: md,
		Home:     (md+team)%2 == 0,
		Result:   []model.Result{model.ResultWin, model.ResultDraw, model.ResultLoss}[g.r.IntN(3)],
	}
	switch x := g.r.Float64(); {
	case x < benchChance:
		return out
	case x < benchChance+subChance:
		out.Minutes = 1 + g.r.IntN(fullMatch/2)
	default:
		out.Minutes = fullMatch
	}
	share := float64(out.Minutes) / fullMatch
	out.Points = int(math.Round(mean*share + g.r.NormFloat64()*pointsSpread*share))
	return out
}

func (g *Generator) status() model.Status {
	switch x := g.r.Float64(); {
	case x < 0.85:
		return model.StatusFit
	case x < 0.92:
		return model.StatusInjured
	case x < 0.95:
		return model.StatusSuspended
	default:
		return model.StatusDoubt
	}
}

// manager buys a squad from the market and sells a few of them again. The
// ledger is booked through ManagerPortfolio.Apply so budget and ownership
// always agree with it.
func (g *Generator) manager(i int, squad []int, players []model.Player) (model.ManagerPortfolio, error) {
	m := model.ManagerPortfolio{
		ManagerID: g.ID(),
		Name:      fmt.Sprintf("Manager %d", i+1),
		Budget:    startBudget,
	}

	at := g.asOf.AddDate(0, 0, -ledgerDays)
	tick := func() time.Time {
		at = at.Add(time.Duration(1+g.r.IntN(48)) * time.Hour)
		return at
	}

	var sells []model.TransferRecord
	for _, idx := range squad {
		p := &players[idx]
		buy := model.TransferRecord{
			PlayerID:    p.ID,
			BuyerID:     m.ManagerID,
			Price:       g.price(p.MarketValue, 0.9, 1.2),
			Timestamp:   tick(),
			MarketValue: p.MarketValue,
		}
		if err := m.Apply(buy); err != nil {
			return m, fmt.Errorf("book buy for %s: %w", m.ManagerID, err)
		}
		if g.r.Float64() < sellChance {
			sells = append(sells, model.TransferRecord{
				PlayerID:    p.ID,
				SellerID:    m.ManagerID,
				Price:       g.price(p.MarketValue, 0.8, 1.3),
				MarketValue: p.MarketValue,
			})
		}
	}
	for _, s := range sells {
		s.Timestamp = tick()
		if err := m.Apply(s); err != nil {
			return m, fmt.Errorf("book sell for %s: %w", m.ManagerID, err)
		}
	}

	m.Starting = slices.Clone(m.Owned[:min(lineupSize, len(m.Owned))])
	return m, nil
}

// score derives each manager's matchday results from their starting line-up.
// Ranks are 1-based within the league, ties broken by manager order.
func (g *Generator) score(managers []model.ManagerPortfolio, players map[string]*model.Player) {
	if len(managers) == 0 {
		return
	}
	for md := 1; md <= g.matchdays; md++ {
		order := make([]int, len(managers))
		points := make([]int, len(managers))
		for i := range managers {
			order[i] = i
			for _, id := range managers[i].Starting {
				if p, ok := players[id]; ok && md <= len(p.History) {
					points[i] += p.History[md-1].Points
				}
			}
		}
		slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(points[b], points[a]) })
		for rank, i := range order {
			managers[i].Matchdays = append(managers[i].Matchdays, model.MatchdayResult{
				Matchday: md,
				Points:   points[i],
				Rank:     rank + 1,
			})
		}
	}
}

func (g *Generator) price(value int64, lo, hi float64) int64 {
	return round(float64(value) * (lo + g.r.Float64()*(hi-lo)))
}

func round(v float64) int64 {
	return int64(math.Round(v/valueStep)) * valueStep
}

// reader adapts a *rand.Rand to io.Reader for uuid generation.
type reader struct {
	r *rand.Rand
}

func (rd reader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(rd.r.Uint32())
	}
	return len(p), nil
}

package fixtures_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/kickbase-analytics/internal/domain/batch"
	"github.com/okian/kickbase-analytics/internal/domain/forecast"
	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/fixtures"
)

var asOf = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func generate(seed int64, players, managers int) batch.League {
	l, err := fixtures.NewGenerator(fixtures.NewRand(seed), fixtures.WithAsOf(asOf)).League(players, managers)
	if err != nil {
		panic(err)
	}
	return l
}

func TestGenerator_Deterministic(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		a := generate(42, 40, 3)
		b := generate(42, 40, 3)

		Convey("Then they produce the same league", func() {
			So(a, ShouldResemble, b)
		})

		Convey("And a different seed produces a different league", func() {
			c := generate(43, 40, 3)
			So(c.ID, ShouldNotEqual, a.ID)
		})
	})

	Convey("Given generated ids", t, func() {
		g := fixtures.NewGenerator(fixtures.NewRand(1))
		id := g.ID()

		Convey("Then they are version 4 UUIDs", func() {
			u, err := uuid.Parse(id)
			So(err, ShouldBeNil)
			So(u.Version(), ShouldEqual, uuid.Version(4))
			So(g.ID(), ShouldNotEqual, id)
		})
	})
}

func TestGenerator_League(t *testing.T) {
	Convey("Given a generated league", t, func() {
		l := generate(7, 45, 3)
		index := model.Index(l.Players)

		Convey("Then every player is consistent with their history", func() {
			So(len(l.Players), ShouldEqual, 45)
			for _, p := range l.Players {
				So(p.Position.Valid(), ShouldBeTrue)
				So(p.Status.Valid(), ShouldBeTrue)
				So(len(p.History), ShouldEqual, fixtures.DefaultMatchdays)

				total, apps := 0, 0
				for _, md := range p.History {
					total += md.Points
					if md.Minutes > 0 {
						apps++
					}
				}
				So(p.TotalPoints, ShouldEqual, total)
				So(p.Appearances, ShouldEqual, apps)
				So(p.HomePoints+p.AwayPoints, ShouldEqual, total)
				So(p.HomeGames+p.AwayGames, ShouldEqual, fixtures.DefaultMatchdays)
			}
		})

		Convey("Then value histories end on the snapshot day at the market value", func() {
			for _, p := range l.Players {
				So(len(p.Values), ShouldEqual, fixtures.DefaultValueDays)
				last, ok := p.Values.Latest()
				So(ok, ShouldBeTrue)
				So(last.Date, ShouldEqual, asOf)
				So(p.MarketValue, ShouldEqual, last.Value)
				for i := 1; i < len(p.Values); i++ {
					So(p.Values[i].Date.After(p.Values[i-1].Date), ShouldBeTrue)
				}
			}
		})

		Convey("Then squads are disjoint and match the ledgers", func() {
			owner := map[string]string{}
			for _, m := range l.Managers {
				So(len(m.Starting), ShouldBeLessThanOrEqualTo, 11)
				So(len(m.Matchdays), ShouldEqual, fixtures.DefaultMatchdays)

				budget := int64(150_000_000)
				for _, tr := range m.Ledger {
					_, known := index[tr.PlayerID]
					So(known, ShouldBeTrue)
					if tr.BuyerID == m.ManagerID {
						budget -= tr.Price
					} else {
						So(tr.SellerID, ShouldEqual, m.ManagerID)
						budget += tr.Price
					}
				}
				So(m.Budget, ShouldEqual, budget)

				for _, id := range m.Owned {
					_, taken := owner[id]
					So(taken, ShouldBeFalse)
					owner[id] = m.ManagerID
				}
			}
		})

		Convey("Then matchday ranks form a permutation", func() {
			for md := range fixtures.DefaultMatchdays {
				seen := map[int]bool{}
				for _, m := range l.Managers {
					seen[m.Matchdays[md].Rank] = true
				}
				So(len(seen), ShouldEqual, len(l.Managers))
				So(seen[1], ShouldBeTrue)
			}
		})

		Convey("Then it splits into one job per position and manager", func() {
			jobs, err := batch.Split("r", &l)
			So(err, ShouldBeNil)
			So(len(jobs), ShouldEqual, len(model.Positions())+len(l.Managers))
		})
	})

	Convey("Given invalid sizes", t, func() {
		g := fixtures.NewGenerator(fixtures.NewRand(1))

		Convey("Then an empty league is rejected", func() {
			_, err := g.League(0, 1)
			So(errors.Is(err, fixtures.ErrInvalidSize), ShouldBeTrue)
		})

		Convey("Then negative managers are rejected", func() {
			_, err := g.League(10, -1)
			So(errors.Is(err, fixtures.ErrInvalidSize), ShouldBeTrue)
		})
	})

	Convey("Given more managers than players to hand out", t, func() {
		l := generate(3, 20, 4)

		Convey("Then late managers get what is left", func() {
			buys := func(m model.ManagerPortfolio) int {
				n := 0
				for _, tr := range m.Ledger {
					if tr.BuyerID == m.ManagerID {
						n++
					}
				}
				return n
			}
			So(len(l.Managers), ShouldEqual, 4)
			So(buys(l.Managers[0]), ShouldEqual, 15)
			So(buys(l.Managers[1]), ShouldEqual, 5)
			So(l.Managers[3].Ledger, ShouldBeEmpty)
			So(l.Managers[3].Budget, ShouldEqual, 150_000_000)
		})
	})
}

func TestGenerator_Walk(t *testing.T) {
	Convey("Given a walk without volatility", t, func() {
		g := fixtures.NewGenerator(fixtures.NewRand(5))
		start := asOf

		Convey("Then it follows the deterministic forecast", func() {
			for _, trend := range []forecast.Trend{forecast.Up, forecast.Down, forecast.Stable} {
				walk := g.Walk(10_000_000, trend, start, 30, 0)
				series := forecast.New(10_000_000, trend, start, 30)
				So(len(walk), ShouldEqual, 30)
				for i, p := range walk {
					want := series.At(i + 1)
					So(p.Date, ShouldEqual, want.Date)
					So(float64(p.Value), ShouldAlmostEqual, want.Value, 1)
				}
			}
		})

		Convey("Then a non-positive length yields nothing", func() {
			So(g.Walk(1, forecast.Up, start, 0, 0.1), ShouldBeNil)
		})
	})

	Convey("Given a simulated forecast", t, func() {
		g := fixtures.NewGenerator(fixtures.NewRand(9))
		points := g.Simulate(10_000_000, forecast.Up, asOf, 14, 200, 0.02)

		Convey("Then every day carries an ordered band", func() {
			So(len(points), ShouldEqual, 14)
			for i, p := range points {
				So(p.Day, ShouldEqual, i+1)
				So(p.ConfidenceLow, ShouldBeLessThanOrEqualTo, p.ConfidenceHigh)
				So(p.ConfidenceLow, ShouldBeGreaterThan, 0)
			}
		})

		Convey("Then the band widens over the horizon", func() {
			first := points[0].ConfidenceHigh - points[0].ConfidenceLow
			last := points[13].ConfidenceHigh - points[13].ConfidenceLow
			So(last, ShouldBeGreaterThan, first)
		})

		Convey("Then the same seed reproduces it", func() {
			again := fixtures.NewGenerator(fixtures.NewRand(9)).Simulate(10_000_000, forecast.Up, asOf, 14, 200, 0.02)
			So(again, ShouldResemble, points)
		})

		Convey("Then no paths means no points", func() {
			So(g.Simulate(1, forecast.Up, asOf, 5, 0, 0.1), ShouldBeNil)
		})
	})
}

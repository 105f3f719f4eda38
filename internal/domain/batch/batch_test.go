package batch_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/batch"
	"github.com/okian/kickbase-analytics/internal/domain/forecast"
	"github.com/okian/kickbase-analytics/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var asOf = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func league() *batch.League {
	l := &batch.League{ID: "l1", AsOf: asOf}
	for i := range 12 {
		pos := model.MID
		if i%3 == 0 {
			pos = model.DEF
		}
		p := model.Player{
			ID:          fmt.Sprintf("p%02d", i),
			Position:    pos,
			MarketValue: int64(i+1) * 1_000_000,
			TotalPoints: 20 + i*7%30,
			Appearances: 5,
		}
		for d := 10; d >= 0; d-- {
			p.Values = append(p.Values, model.ValueHistoryPoint{
				Date:  asOf.AddDate(0, 0, -d),
				Value: p.MarketValue - int64(d*(i-5))*10_000,
			})
		}
		l.Players = append(l.Players, p)
	}
	l.Managers = []model.ManagerPortfolio{
		{ManagerID: "m1", Budget: 5_000_000, Owned: []string{"p00", "p01"}, Starting: []string{"p00"}},
		{ManagerID: "m2", Budget: 1_000_000, Owned: []string{"p02"}},
	}
	return l
}

func TestSplit(t *testing.T) {
	Convey("Given a league with two positions and two managers", t, func() {
		l := league()
		jobs, err := batch.Split("r1", l)
		So(err, ShouldBeNil)

		So(len(jobs), ShouldEqual, 4)
		So(jobs[0].Cohort(), ShouldEqual, "position:DEF")
		So(jobs[1].Cohort(), ShouldEqual, "position:MID")
		So(jobs[2].Cohort(), ShouldEqual, "manager:m1")
		for _, j := range jobs {
			So(j.ReportID, ShouldEqual, "r1")
			So(j.ID, ShouldNotBeBlank)
		}
	})

	Convey("Given an empty league", t, func() {
		_, err := batch.Split("r1", &batch.League{ID: "x"})
		So(errors.Is(err, batch.ErrEmptyLeague), ShouldBeTrue)
	})

	Convey("Given a league whose managers repeat an id", t, func() {
		l := league()
		l.Managers = append(l.Managers, model.ManagerPortfolio{ManagerID: "m1"})
		_, err := batch.Split("r1", l)
		So(errors.Is(err, batch.ErrInvalidManager), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, `"m1"`)
	})

	Convey("Given a league with a blank manager id", t, func() {
		l := league()
		l.Managers[1].ManagerID = " "
		_, err := batch.Split("r1", l)
		So(errors.Is(err, batch.ErrInvalidManager), ShouldBeTrue)
	})

	Convey("Given a player without a position", t, func() {
		l := league()
		l.Players[4].Position = 0
		_, err := batch.Split("r1", l)
		So(errors.Is(err, model.ErrUnknownPosition), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, `"p04"`)
	})

	Convey("Given two snapshots of a league", t, func() {
		a := batch.League{ID: "l", AsOf: asOf}
		b := batch.League{ID: "l", AsOf: asOf.Add(time.Hour)}
		So(a.Key(), ShouldNotEqual, b.Key())
	})
}

func TestProcess(t *testing.T) {
	Convey("Given a processor and a league", t, func() {
		p := batch.NewProcessor(batch.WithPicks(2), batch.WithSimilarLimit(3), batch.WithHorizon(14))
		l := league()
		jobs, err := batch.Split("r1", l)
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("A position job covers only its cohort", func() {
			res, err := p.Process(ctx, &jobs[1])
			So(err, ShouldBeNil)
			So(res.Cohort, ShouldEqual, "position:MID")
			pr := res.Position
			So(pr, ShouldNotBeNil)
			So(pr.Stats.Count, ShouldEqual, 8)
			So(pr.Regression.N, ShouldEqual, 8)
			So(len(pr.Rankings), ShouldEqual, 8)
			So(len(pr.OverPerform), ShouldEqual, 2)
			So(len(pr.UnderPerform), ShouldEqual, 2)
			So(pr.OverPerform[0].Residual, ShouldBeGreaterThanOrEqualTo, pr.UnderPerform[0].Residual)
			So(len(pr.Alternatives), ShouldEqual, 2)
			for id, matches := range pr.Alternatives {
				So(len(matches), ShouldBeLessThanOrEqualTo, 3)
				for _, m := range matches {
					So(m.PlayerID, ShouldNotEqual, id)
				}
			}
			So(len(pr.Outlook), ShouldEqual, 8)
			for _, o := range pr.Outlook {
				So(o.End.Day, ShouldEqual, 14)
				So(o.Trend, ShouldBeIn, []forecast.Trend{forecast.Up, forecast.Down, forecast.Stable})
			}
		})

		Convey("A manager job analyses the portfolio", func() {
			res, err := p.Process(ctx, &jobs[2])
			So(err, ShouldBeNil)
			So(res.Manager, ShouldNotBeNil)
			So(res.Manager.Investment.SellableValue, ShouldEqual, 3_000_000)
			So(res.Manager.Bench.BenchPlayerCount, ShouldEqual, 1)
		})

		Convey("A manager missing from the league fails", func() {
			j := jobs[2]
			j.ManagerID = "ghost"
			_, err := p.Process(ctx, &j)
			So(errors.Is(err, batch.ErrNoSuchTarget), ShouldBeTrue)
		})

		Convey("A cancelled context stops before computing", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := p.Process(cctx, &jobs[0])
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("An unknown kind fails", func() {
			j := jobs[0]
			j.Kind = "team"
			_, err := p.Process(ctx, &j)
			So(errors.Is(err, batch.ErrUnknownKind), ShouldBeTrue)
		})
	})
}

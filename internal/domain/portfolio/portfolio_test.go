package portfolio_test

import (
	"testing"
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/domain/portfolio"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

func TestInvestment(t *testing.T) {
	Convey("Given a budget of 12.34M and a squad worth 156.42M", t, func() {
		owned := []*model.Player{
			{ID: "a", MarketValue: 100_000_000},
			{ID: "b", MarketValue: 50_000_000},
			{ID: "c", MarketValue: 6_420_000},
		}
		inv := portfolio.New().Investment(12_340_000, owned)

		So(inv.SellableValue, ShouldEqual, 156_420_000)
		So(inv.TotalSpendingPower, ShouldEqual, 168_760_000)
		So(inv.MaxSingleBuy, ShouldEqual, 118_132_000)
	})

	Convey("Given an overdrawn budget the cap still floors", t, func() {
		inv := portfolio.New(portfolio.WithMaxSingleBuyRatio(0.5)).Investment(-3, nil)
		So(inv.TotalSpendingPower, ShouldEqual, -3)
		So(inv.MaxSingleBuy, ShouldEqual, -2)
	})
}

func TestBench(t *testing.T) {
	Convey("Given starters and a bench", t, func() {
		starting := []*model.Player{{TotalPoints: 100}, {TotalPoints: 60}}
		bench := []*model.Player{{TotalPoints: 40, MarketValue: 2_000_000}}
		b := portfolio.Bench(starting, bench)

		So(b.StartingAvgPoints, ShouldEqual, 80)
		So(b.BenchAvgPoints, ShouldEqual, 40)
		So(b.Ratio, ShouldEqual, 0.5)
		So(b.BenchTotalValue, ShouldEqual, 2_000_000)
		So(b.BenchPlayerCount, ShouldEqual, 1)
	})

	Convey("Given no starters the ratio is zero", t, func() {
		b := portfolio.Bench(nil, []*model.Player{{TotalPoints: 40}})
		So(b.Ratio, ShouldEqual, 0)
		So(portfolio.Bench(nil, nil).BenchAvgPoints, ShouldEqual, 0)
	})
}

func TestTrader(t *testing.T) {
	players := map[string]*model.Player{
		"p1": {ID: "p1", Position: model.MID},
		"p2": {ID: "p2", Position: model.FWD},
		"p3": {ID: "p3", Position: model.MID},
	}
	at := func(day int) time.Time { return now.AddDate(0, 0, day) }

	Convey("Given a ledger with round trips", t, func() {
		ledger := []model.TransferRecord{
			{PlayerID: "p1", SellerID: "m", Price: 1_500_000, Timestamp: at(3)},
			{PlayerID: "p1", BuyerID: "m", Price: 1_000_000, MarketValue: 800_000, Timestamp: at(1)},
			{PlayerID: "p2", BuyerID: "m", Price: 2_000_000, MarketValue: 2_000_000, Timestamp: at(2)},
			{PlayerID: "p2", SellerID: "m", BuyerID: "x", Price: 1_800_000, Timestamp: at(4)},
			{PlayerID: "p3", SellerID: "m", Price: 500_000, Timestamp: at(5)},
			{PlayerID: "p3", BuyerID: "m", Price: 1_200_000, MarketValue: 1_000_000, Timestamp: at(6)},
			{PlayerID: "p9", BuyerID: "x", SellerID: "y", Price: 9, Timestamp: at(7)},
		}
		st := portfolio.Trader("m", ledger, players)

		Convey("Then buys and sells are partitioned", func() {
			So(st.Buys, ShouldEqual, 3)
			So(st.Sells, ShouldEqual, 3)
			So(st.TotalSpent, ShouldEqual, 4_200_000)
			So(st.TotalReceived, ShouldEqual, 3_800_000)
			So(st.ROIPct, ShouldAlmostEqual, -400_000.0/4_200_000.0*100, 1e-9)
		})

		Convey("Then only sells after a buy count as flips", func() {
			So(st.Flips, ShouldEqual, 2)
			So(st.FlipProfit, ShouldEqual, 300_000)
			So(st.ProfitableFlips, ShouldEqual, 1)
			So(st.UnprofitableFlips, ShouldEqual, 1)
		})

		Convey("Then overpay is averaged per position", func() {
			So(st.OverpayPct[model.MID], ShouldAlmostEqual, 22.5, 1e-9)
			So(st.OverpayPct[model.FWD], ShouldEqual, 0)
			_, ok := st.OverpayPct[model.GK]
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a blank manager id against system transfers", t, func() {
		ledger := []model.TransferRecord{
			{PlayerID: "p1", SellerID: "m", Price: 1_000_000, Timestamp: at(1)},
			{PlayerID: "p2", BuyerID: "m", Price: 2_000_000, Timestamp: at(2)},
		}
		st := portfolio.Trader("", ledger, players)
		So(st.Buys, ShouldEqual, 0)
		So(st.Sells, ShouldEqual, 0)
		So(st.TotalSpent, ShouldEqual, 0)
		So(st.OverpayPct, ShouldNotBeNil)
	})

	Convey("Given an empty ledger ROI is zero", t, func() {
		st := portfolio.Trader("m", nil, players)
		So(st.ROIPct, ShouldEqual, 0)
		So(st.Flips, ShouldEqual, 0)
	})
}

func TestStats(t *testing.T) {
	Convey("Given matchday results", t, func() {
		s := portfolio.Stats([]model.MatchdayResult{
			{Matchday: 1, Points: 50, Rank: 1},
			{Matchday: 2, Points: 30, Rank: 4},
			{Matchday: 3, Points: 70, Rank: 3},
			{Matchday: 4, Points: 50, Rank: 2},
		})
		So(s.AvgPointsPerMatchday, ShouldEqual, 50)
		So(s.Best.Matchday, ShouldEqual, 3)
		So(s.Worst.Matchday, ShouldEqual, 2)
		So(s.Consistency, ShouldAlmostEqual, 14.142135623730951, 1e-9)
		So(s.MatchdayWins, ShouldEqual, 1)
		So(s.Top3Finishes, ShouldEqual, 3)
		So(s.MatchdaysPlayed, ShouldEqual, 4)
	})

	Convey("Given no history", t, func() {
		So(portfolio.Stats(nil), ShouldResemble, portfolio.ManagerStats{})
	})
}

func TestActivity(t *testing.T) {
	a := portfolio.New(portfolio.WithClock(func() time.Time { return now }))

	Convey("Given transfers at various ages", t, func() {
		for _, c := range []struct {
			daysAgo int
			want    portfolio.Engagement
		}{
			{0, portfolio.VeryActive},
			{2, portfolio.VeryActive},
			{3, portfolio.Active},
			{8, portfolio.Moderate},
			{11, portfolio.Passive},
			{12, portfolio.Inactive},
			{40, portfolio.Inactive},
		} {
			ledger := []model.TransferRecord{
				{PlayerID: "p", BuyerID: "m", Timestamp: now.AddDate(0, 0, -c.daysAgo-5)},
				{PlayerID: "p", SellerID: "m", Timestamp: now.AddDate(0, 0, -c.daysAgo)},
			}
			act := a.Activity("m", ledger)
			So(act.DaysSinceLast, ShouldEqual, c.daysAgo)
			So(act.Engagement, ShouldEqual, c.want)
			So(act.TotalTransfers, ShouldEqual, 2)
		}
	})

	Convey("Given seventeen transfers", t, func() {
		ledger := make([]model.TransferRecord, 17)
		for i := range ledger {
			ledger[i] = model.TransferRecord{PlayerID: "p", BuyerID: "m", Timestamp: now}
		}
		So(a.Activity("m", ledger).TransfersPerWeek, ShouldEqual, 1)
	})

	Convey("Given a blank manager id", t, func() {
		ledger := []model.TransferRecord{
			{PlayerID: "p", SellerID: "m", Timestamp: now},
			{PlayerID: "q", BuyerID: "m", Timestamp: now},
		}
		act := a.Activity("", ledger)
		So(act.TotalTransfers, ShouldEqual, 0)
		So(act.Engagement, ShouldEqual, portfolio.Inactive)
	})

	Convey("Given no transfers", t, func() {
		act := a.Activity("m", nil)
		So(act.Engagement, ShouldEqual, portfolio.Inactive)
		So(act.LastTransfer, ShouldBeNil)
	})
}

func TestCash(t *testing.T) {
	at := func(day int) time.Time { return now.AddDate(0, 0, day) }
	m := &model.ManagerPortfolio{
		ManagerID: "m",
		Budget:    2_000_000,
		Ledger: []model.TransferRecord{
			{PlayerID: "p1", BuyerID: "m", Price: 1_000_000, Timestamp: at(1)},
			{PlayerID: "p2", BuyerID: "m", Price: 2_000_000, Timestamp: at(2)},
			{PlayerID: "p1", SellerID: "m", Price: 1_500_000, Timestamp: at(3)},
			{PlayerID: "p2", SellerID: "m", BuyerID: "x", Price: 1_800_000, Timestamp: at(4)},
			{PlayerID: "p3", SellerID: "m", Price: 500_000, Timestamp: at(5)},
			{PlayerID: "p4", BuyerID: "m", Price: 3_000_000, Timestamp: at(6)},
			{PlayerID: "p4", SellerID: "m", Price: 3_000_000, Timestamp: at(7)},
			{PlayerID: "p5", BuyerID: "m", Price: 1_000_000, Timestamp: at(7)},
			{PlayerID: "p5", SellerID: "m", Price: 1_100_000, Timestamp: at(8)},
			{PlayerID: "p9", BuyerID: "x", SellerID: "y", Price: 9, Timestamp: at(8)},
		},
	}
	owned := []*model.Player{{ID: "a", MarketValue: 4_000_000}}

	Convey("Given a manager with matched and unmatched sells", t, func() {
		cf := portfolio.New().Cash(m, owned)

		Convey("Then only matched sells realise profit", func() {
			So(len(cf.Transfers), ShouldEqual, 9)
			So(cf.Transfers[0].Side, ShouldEqual, portfolio.Buy)
			So(cf.Transfers[0].Profit, ShouldEqual, 0)
			So(cf.Transfers[2].Profit, ShouldEqual, 500_000)
			So(cf.Transfers[4].Matched, ShouldBeFalse)
			So(cf.TotalTransferProfit, ShouldEqual, 400_000)
			So(cf.TotalAssets, ShouldEqual, 6_000_000)
		})

		Convey("Then best and worst skip break-even sells", func() {
			So(len(cf.Best), ShouldEqual, 2)
			So(cf.Best[0].PlayerID, ShouldEqual, "p1")
			So(cf.Best[1].PlayerID, ShouldEqual, "p5")
			So(len(cf.Worst), ShouldEqual, 1)
			So(cf.Worst[0].Profit, ShouldEqual, -200_000)
		})

		Convey("Then history accumulates one point per day", func() {
			So(len(cf.History), ShouldEqual, 8)
			So(cf.History[0].Date, ShouldEqual, model.Day(at(1)))
			So(cf.History[0].TransferProfit, ShouldEqual, 0)
			So(cf.History[2].TransferProfit, ShouldEqual, 500_000)
			So(cf.History[3].TransferProfit, ShouldEqual, 300_000)
			So(cf.History[6].TransferProfit, ShouldEqual, 300_000)
			So(cf.History[7].TransferProfit, ShouldEqual, 400_000)
			So(cf.AvgDailyProfit, ShouldEqual, 50_000)
		})
	})

	Convey("Given a pick count of one", t, func() {
		cf := portfolio.New(portfolio.WithPickCount(1)).Cash(m, owned)
		So(len(cf.Best), ShouldEqual, 1)
		So(cf.Best[0].PlayerID, ShouldEqual, "p1")
	})

	Convey("Given a manager without transfers", t, func() {
		cf := portfolio.New().Cash(&model.ManagerPortfolio{ManagerID: "m", Budget: 7}, nil)
		So(cf.Transfers, ShouldBeEmpty)
		So(cf.History, ShouldBeEmpty)
		So(cf.AvgDailyProfit, ShouldEqual, 0)
		So(cf.TotalAssets, ShouldEqual, 7)
	})
}

func TestHoldings(t *testing.T) {
	at := func(day int) time.Time { return now.AddDate(0, 0, day) }

	Convey("Given owned players bought, resold and rebought", t, func() {
		players := model.Index([]model.Player{
			{ID: "p0", MarketValue: 4_000_000},
			{ID: "p1", MarketValue: 128_500_000},
			{ID: "p3", MarketValue: 1_500_000},
			{ID: "p4", MarketValue: 900_000},
		})
		m := &model.ManagerPortfolio{
			ManagerID: "m",
			Owned:     []string{"p0", "p1", "p3", "p4", "ghost"},
			Ledger: []model.TransferRecord{
				{PlayerID: "p1", BuyerID: "m", Price: 60_000_000, Timestamp: at(1)},
				{PlayerID: "p1", SellerID: "m", Price: 70_000_000, Timestamp: at(2)},
				{PlayerID: "p1", BuyerID: "m", Price: 95_000_000, Timestamp: at(3)},
				{PlayerID: "p3", BuyerID: "m", Price: 1_200_000, Timestamp: at(4)},
				{PlayerID: "p4", BuyerID: "m", Price: 0, Timestamp: at(5)},
			},
		}
		hs := portfolio.Holdings(m, players)
		So(len(hs), ShouldEqual, 4)

		Convey("Then an initial squad player has no purchase data", func() {
			So(hs[0].PlayerID, ShouldEqual, "p0")
			So(hs[0].Owner, ShouldEqual, "m")
			So(hs[0].BuyPrice, ShouldBeNil)
			So(hs[0].Profit, ShouldBeNil)
			So(hs[0].ProfitPct, ShouldBeNil)
		})

		Convey("Then a rebought player is valued against the latest buy", func() {
			So(*hs[1].BuyPrice, ShouldEqual, 95_000_000)
			So(hs[1].BuyDate.Equal(at(3)), ShouldBeTrue)
			So(*hs[1].Profit, ShouldEqual, 33_500_000)
			So(*hs[1].ProfitPct, ShouldEqual, 35.3)
		})

		Convey("Then gains and free buys are reported", func() {
			So(*hs[2].Profit, ShouldEqual, 300_000)
			So(*hs[2].ProfitPct, ShouldEqual, 25)
			So(*hs[3].Profit, ShouldEqual, 900_000)
			So(hs[3].ProfitPct, ShouldBeNil)
		})
	})
}

func TestAnalyze(t *testing.T) {
	Convey("Given a manager portfolio", t, func() {
		players := model.Index([]model.Player{
			{ID: "gk", Position: model.GK, MarketValue: 1_000_000, TotalPoints: 50, Appearances: 10},
			{ID: "d1", Position: model.DEF, MarketValue: 2_000_000, TotalPoints: 80, Appearances: 10},
			{ID: "d2", Position: model.DEF, MarketValue: 3_000_000, TotalPoints: 30, Appearances: 10},
			{ID: "m1", Position: model.MID, MarketValue: 9_000_000, TotalPoints: 90, Appearances: 10},
			{ID: "f1", Position: model.FWD, MarketValue: 4_000_000, TotalPoints: 0, Appearances: 0},
		})
		m := &model.ManagerPortfolio{
			ManagerID: "m",
			Budget:    -500_000,
			Owned:     []string{"gk", "d1", "d2", "m1", "f1", "ghost"},
			Starting:  []string{"gk", "d1", "m1", "f1"},
		}
		r := portfolio.New(portfolio.WithPickCount(2)).Analyze(m, players)

		So(r.Overdrawn, ShouldBeTrue)
		So(r.Formation, ShouldEqual, "1-1-1")
		So(r.Investment.SellableValue, ShouldEqual, 19_000_000)
		So(r.Bench.BenchPlayerCount, ShouldEqual, 1)
		So(r.Cash.TotalAssets, ShouldEqual, 18_500_000)
		So(len(r.Holdings), ShouldEqual, 5)

		Convey("Value picks skip players without points", func() {
			So(len(r.Picks.Best), ShouldEqual, 2)
			So(r.Picks.Best[0].PlayerID, ShouldEqual, "gk")
			So(r.Picks.Best[1].PlayerID, ShouldEqual, "d1")
			So(r.Picks.Worst[0].PlayerID, ShouldEqual, "d2")
			So(r.Picks.Worst[1].PlayerID, ShouldEqual, "m1")
		})
	})
}

package portfolio

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/kickbase-analytics/internal/domain/model"
)

// ProfitPoint is the realised transfer profit accumulated by the end of Date.
type ProfitPoint struct {
	Date           time.Time `json:"date"`
	TransferProfit int64     `json:"transfer_profit"`
}

// CashFlow is a manager's money and realised trading result.
type CashFlow struct {
	Budget              int64         `json:"budget"`
	TotalAssets         int64         `json:"total_assets"`
	TotalTransferProfit int64         `json:"total_transfer_profit"`
	AvgDailyProfit      float64       `json:"avg_daily_profit"`
	Transfers           []Transfer    `json:"transfers"`
	Best                []Transfer    `json:"best_transfers"`
	Worst               []Transfer    `json:"worst_transfers"`
	History             []ProfitPoint `json:"profit_history"`
}

// Cash books every transfer of m with its profit. Only matched sells realise
// profit. Best and worst list the most profitable and most costly sells, at
// most the configured pick count each; break-even sells are in neither.
// History has one point per calendar day from the first transfer to the
// last, and the daily average is taken over those days.
func (a *Analyzer) Cash(m *model.ManagerPortfolio, owned []*model.Player) CashFlow {
	transfers, _ := book(m.ManagerID, m.Ledger)
	cf := CashFlow{
		Budget:      m.Budget,
		TotalAssets: a.Investment(m.Budget, owned).TotalSpendingPower,
		Transfers:   transfers,
		Best:        []Transfer{},
		Worst:       []Transfer{},
		History:     []ProfitPoint{},
	}
	if cf.Transfers == nil {
		cf.Transfers = []Transfer{}
	}

	daily := map[time.Time]int64{}
	for _, t := range transfers {
		if !t.Matched {
			continue
		}
		cf.TotalTransferProfit += t.Profit
		daily[model.Day(t.Date)] += t.Profit
		switch {
		case t.Profit > 0:
			cf.Best = append(cf.Best, t)
		case t.Profit < 0:
			cf.Worst = append(cf.Worst, t)
		}
	}
	slices.SortStableFunc(cf.Best, func(x, y Transfer) int { return cmp.Compare(y.Profit, x.Profit) })
	slices.SortStableFunc(cf.Worst, func(x, y Transfer) int { return cmp.Compare(x.Profit, y.Profit) })
	cf.Best = cf.Best[:min(len(cf.Best), a.picks)]
	cf.Worst = cf.Worst[:min(len(cf.Worst), a.picks)]

	if len(transfers) == 0 {
		return cf
	}
	var (
		first = model.Day(transfers[0].Date)
		last  = model.Day(transfers[len(transfers)-1].Date)
		sum   int64
	)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		sum += daily[day]
		cf.History = append(cf.History, ProfitPoint{Date: day, TransferProfit: sum})
	}
	cf.AvgDailyProfit = decimal.NewFromInt(cf.TotalTransferProfit).
		Div(decimal.NewFromInt(int64(len(cf.History)))).InexactFloat64()
	return cf
}

package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/okian/kickbase-analytics/internal/domain/model"
)

// TraderStats describes a manager's buying and selling record.
type TraderStats struct {
	Buys              int                        `json:"buys"`
	Sells             int                        `json:"sells"`
	TotalSpent        int64                      `json:"total_spent"`
	TotalReceived     int64                      `json:"total_received"`
	ROIPct            float64                    `json:"roi_pct"`
	Flips             int                        `json:"flips"`
	FlipProfit        int64                      `json:"flip_profit"`
	ProfitableFlips   int                        `json:"profitable_flips"`
	UnprofitableFlips int                        `json:"unprofitable_flips"`
	OverpayPct        map[model.Position]float64 `json:"overpay_pct"`
}

// Trader partitions the manager's side of the ledger into buys and sells.
// A sell is matched against the earliest open buy of the same player; sells
// with no prior buy, such as initial squad players, are not flips. A flip
// that breaks even counts as unprofitable. Overpay is averaged per position
// over buys with a known market value. A blank manager id has no record.
func Trader(managerID string, ledger []model.TransferRecord, players map[string]*model.Player) TraderStats {
	st := TraderStats{OverpayPct: map[model.Position]float64{}}
	if managerID == "" {
		return st
	}

	var (
		transfers, _ = book(managerID, ledger)
		overpay      = map[model.Position]decimal.Decimal{}
		overpayN     = map[model.Position]int64{}
	)
	for _, t := range transfers {
		switch t.Side {
		case Buy:
			st.Buys++
			st.TotalSpent += t.Price

			p, ok := players[t.PlayerID]
			if !ok || t.MarketValue <= 0 {
				continue
			}
			mv := decimal.NewFromInt(t.MarketValue)
			over := decimal.NewFromInt(t.Price).Sub(mv).Div(mv)
			overpay[p.Position] = overpay[p.Position].Add(over)
			overpayN[p.Position]++
		case Sell:
			st.Sells++
			st.TotalReceived += t.Price
			if !t.Matched {
				continue
			}
			st.Flips++
			st.FlipProfit += t.Profit
			if t.Profit > 0 {
				st.ProfitableFlips++
			} else {
				st.UnprofitableFlips++
			}
		}
	}

	if st.TotalSpent != 0 {
		spent := decimal.NewFromInt(st.TotalSpent)
		st.ROIPct = decimal.NewFromInt(st.TotalReceived).Sub(spent).Div(spent).Mul(hundred).InexactFloat64()
	}
	for pos, sum := range overpay {
		st.OverpayPct[pos] = sum.Div(decimal.NewFromInt(overpayN[pos])).Mul(hundred).InexactFloat64()
	}
	return st
}

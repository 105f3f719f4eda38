package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/kickbase-analytics/internal/domain/model"
)

// Holding is an owned player valued against what the manager paid. The
// purchase fields are nil when the ledger holds no open buy of the player,
// as for an initial squad player.
type Holding struct {
	PlayerID    string     `json:"player_id"`
	Owner       string     `json:"owner"`
	MarketValue int64      `json:"market_value"`
	BuyPrice    *int64     `json:"buy_price"`
	BuyDate     *time.Time `json:"buy_date"`
	Profit      *int64     `json:"profit"`
	ProfitPct   *float64   `json:"profit_pct"`
}

// Holdings values every owned player against its most recent open buy.
// Unrealised profit is market value minus buy price; the percentage is of
// the buy price, to one decimal, and nil for a free buy. Unknown ids are
// skipped.
func Holdings(m *model.ManagerPortfolio, players map[string]*model.Player) []Holding {
	_, open := book(m.ManagerID, m.Ledger)
	out := make([]Holding, 0, len(m.Owned))
	for _, id := range m.Owned {
		p, ok := players[id]
		if !ok {
			continue
		}
		h := Holding{PlayerID: id, Owner: m.ManagerID, MarketValue: p.MarketValue}
		if lots := open[id]; len(lots) > 0 {
			l := lots[len(lots)-1]
			profit := p.MarketValue - l.price
			h.BuyPrice, h.BuyDate, h.Profit = &l.price, &l.date, &profit
			if l.price > 0 {
				pct := decimal.NewFromInt(profit).Div(decimal.NewFromInt(l.price)).Mul(hundred).Round(1).InexactFloat64()
				h.ProfitPct = &pct
			}
		}
		out = append(out, h)
	}
	return out
}

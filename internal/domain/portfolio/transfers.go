package portfolio

import (
	"cmp"
	"slices"
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/model"
)

// Side is the manager's side of a transfer.
type Side string

// Transfer sides.
const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Transfer is one ledger entry seen from a manager. Profit is set on sells
// matched against an earlier buy and is zero otherwise.
type Transfer struct {
	PlayerID    string    `json:"player_id"`
	Side        Side      `json:"type"`
	Price       int64     `json:"price"`
	MarketValue int64     `json:"market_value,omitempty"`
	Date        time.Time `json:"date"`
	Profit      int64     `json:"profit"`
	Matched     bool      `json:"matched"`
}

type lot struct {
	price int64
	date  time.Time
}

// book replays the manager's side of the ledger in time order. A sell is
// matched against the earliest open buy of the same player; the buys still
// open at the end are returned per player, oldest first. A blank manager id
// owns nothing: system transfers carry blank buyer or seller ids.
func book(managerID string, ledger []model.TransferRecord) ([]Transfer, map[string][]lot) {
	open := map[string][]lot{}
	if managerID == "" {
		return nil, open
	}
	ordered := slices.Clone(ledger)
	slices.SortStableFunc(ordered, func(a, b model.TransferRecord) int {
		return cmp.Compare(a.Timestamp.UnixNano(), b.Timestamp.UnixNano())
	})

	var out []Transfer
	for _, t := range ordered {
		tr := Transfer{PlayerID: t.PlayerID, Price: t.Price, MarketValue: t.MarketValue, Date: t.Timestamp}
		switch managerID {
		case t.BuyerID:
			tr.Side = Buy
			open[t.PlayerID] = append(open[t.PlayerID], lot{price: t.Price, date: t.Timestamp})
		case t.SellerID:
			tr.Side = Sell
			if lots := open[t.PlayerID]; len(lots) > 0 {
				tr.Profit = t.Price - lots[0].price
				tr.Matched = true
				open[t.PlayerID] = lots[1:]
			}
		default:
			continue
		}
		out = append(out, tr)
	}
	return out, open
}

package model

import (
	"fmt"
	"slices"
	"time"
)

// TransferRecord is an immutable ledger event. An empty BuyerID or SellerID
// denotes the system (initial assignment or sale to the market).
type TransferRecord struct {
	PlayerID  string    `json:"player_id"`
	BuyerID   string    `json:"buyer_id,omitempty"`
	SellerID  string    `json:"seller_id,omitempty"`
	Price     int64     `json:"price"`
	Timestamp time.Time `json:"timestamp"`

	// MarketValue is the player's market value when the transfer happened; 0 if unknown.
	MarketValue int64 `json:"market_value,omitempty"`
}

// MatchdayResult is a manager's score on one matchday.
type MatchdayResult struct {
	Matchday int `json:"matchday"`
	Points   int `json:"points"`
	Rank     int `json:"rank"`
}

// ManagerPortfolio is a manager's budget, squad and transfer ledger.
type ManagerPortfolio struct {
	ManagerID string           `json:"manager_id"`
	Name      string           `json:"name,omitempty"`
	Budget    int64            `json:"budget"`
	Owned     []string         `json:"owned"`
	Starting  []string         `json:"starting,omitempty"`
	Ledger    []TransferRecord `json:"ledger,omitempty"`
	Matchdays []MatchdayResult `json:"matchdays,omitempty"`
}

// Apply books a transfer against the portfolio. Buying debits the budget and
// adds the player; selling credits it and removes the player. The budget is
// allowed to go negative; see Overdrawn.
func (m *ManagerPortfolio) Apply(t TransferRecord) error {
	switch m.ManagerID {
	case t.BuyerID:
		m.Budget -= t.Price
		if !slices.Contains(m.Owned, t.PlayerID) {
			m.Owned = append(m.Owned, t.PlayerID)
		}
	case t.SellerID:
		m.Budget += t.Price
		m.Owned = slices.DeleteFunc(m.Owned, func(id string) bool { return id == t.PlayerID })
		m.Starting = slices.DeleteFunc(m.Starting, func(id string) bool { return id == t.PlayerID })
	default:
		return fmt.Errorf("%w: %s on %s", ErrNotParty, m.ManagerID, t.PlayerID)
	}
	m.Ledger = append(m.Ledger, t)
	return nil
}

// Overdrawn reports whether applied transfers pushed the budget below zero.
func (m *ManagerPortfolio) Overdrawn() bool {
	return m.Budget < 0
}

// Bench returns owned players not in the starting line-up, in ownership order.
func (m *ManagerPortfolio) Bench() []string {
	out := make([]string, 0, len(m.Owned))
	for _, id := range m.Owned {
		if !slices.Contains(m.Starting, id) {
			out = append(out, id)
		}
	}
	return out
}

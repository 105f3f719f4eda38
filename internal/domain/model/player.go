package model

import "fmt"

// MatchdayPoints is one matchday of a player's performance history.
type MatchdayPoints struct {
	Matchday int    `json:"matchday"`
	Points   int    `json:"points"`
	Minutes  int    `json:"minutes_played"`
	Result   Result `json:"result,omitempty"`
	Home     bool   `json:"is_home"`
}

// Player is the raw record supplied by the ingestion collaborator.
// Derived averages are deliberately absent; see performance.Calculate.
type Player struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	TeamID      string           `json:"team_id,omitempty"`
	Position    Position         `json:"position"`
	Status      Status           `json:"status"`
	MarketValue int64            `json:"market_value"`
	TotalPoints int              `json:"total_points"`
	Appearances int              `json:"appearances"`
	History     []MatchdayPoints `json:"history"`

	HomePoints int `json:"home_points"`
	HomeGames  int `json:"home_games"`
	AwayPoints int `json:"away_points"`
	AwayGames  int `json:"away_games"`

	Values ValueHistory `json:"value_history,omitempty"`
}

// Points returns the chronological per-matchday point sequence.
func (p *Player) Points() []float64 {
	out := make([]float64, len(p.History))
	for i, md := range p.History {
		out[i] = float64(md.Points)
	}
	return out
}

// Minutes returns the total minutes played across the history.
func (p *Player) Minutes() int {
	total := 0
	for _, md := range p.History {
		total += md.Minutes
	}
	return total
}

// Index maps player ids to records. Later duplicates win.
func Index(players []Player) map[string]*Player {
	out := make(map[string]*Player, len(players))
	for i := range players {
		out[players[i].ID] = &players[i]
	}
	return out
}

// ValidatePlayers rejects records the decoder accepted but the analytics
// cannot use. A player whose position key was absent decodes to the zero
// Position and is reported as ErrUnknownPosition.
func ValidatePlayers(players []Player) error {
	for i := range players {
		if !players[i].Position.Valid() {
			return fmt.Errorf("player %q: %w", players[i].ID, ErrUnknownPosition)
		}
	}
	return nil
}

package performance

import (
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/model"
)

const (
	day             = 24 * time.Hour
	fridayLookahead = 3
)

// Momentum tells whether recent value change is speeding up.
type Momentum string

// Momentum values.
const (
	MomentumAccelerating Momentum = "accelerating"
	MomentumDecelerating Momentum = "decelerating"
)

// ValueTrends summarises market value movement up to a given day.
type ValueTrends struct {
	Value            int64    `json:"value"`
	Change1d         int64    `json:"change_1d"`
	Change7d         int64    `json:"change_7d"`
	Change30d        int64    `json:"change_30d"`
	Change1dPct      float64  `json:"change_1d_pct"`
	Change7dPct      float64  `json:"change_7d_pct"`
	Change30dPct     float64  `json:"change_30d_pct"`
	FridayProjection int64    `json:"friday_projection"`
	Momentum         Momentum `json:"momentum"`
	Acceleration     float64  `json:"acceleration"`
}

// Trends derives value changes from h as seen on asOf. Missing history
// points count as no change.
func Trends(h model.ValueHistory, asOf time.Time) ValueTrends {
	current, ok := h.At(asOf)
	if !ok {
		return ValueTrends{Momentum: MomentumDecelerating}
	}
	change := func(days int) int64 {
		prior, ok := h.At(asOf.Add(-time.Duration(days) * day))
		if !ok {
			return 0
		}
		return current - prior
	}

	t := ValueTrends{
		Value:     current,
		Change1d:  change(1),
		Change7d:  change(7),
		Change30d: change(30),
	}
	t.Change1dPct = ChangePct(t.Change1d, current)
	t.Change7dPct = ChangePct(t.Change7d, current)
	t.Change30dPct = ChangePct(t.Change30d, current)
	t.FridayProjection = current + t.Change1d*fridayLookahead

	weekly := float64(t.Change7d) / 7
	monthly := float64(t.Change30d) / 30
	t.Acceleration = weekly - monthly
	t.Momentum = MomentumDecelerating
	if weekly > monthly {
		t.Momentum = MomentumAccelerating
	}
	return t
}

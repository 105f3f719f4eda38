package portfolio

import (
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/model"
)

// Engagement buckets how recently a manager traded.
type Engagement string

// Engagement levels, most active first.
const (
	VeryActive Engagement = "very_active"
	Active     Engagement = "active"
	Moderate   Engagement = "moderate"
	Passive    Engagement = "passive"
	Inactive   Engagement = "inactive"
)

var engagementLevels = [...]Engagement{VeryActive, Active, Moderate, Passive, Inactive}

const daysPerLevel = 3

// Activity describes how often a manager trades.
type Activity struct {
	TotalTransfers   int        `json:"total_transfers"`
	Buys             int        `json:"buys"`
	Sells            int        `json:"sells"`
	TransfersPerWeek float64    `json:"transfers_per_week"`
	LastTransfer     *time.Time `json:"last_transfer_date,omitempty"`
	DaysSinceLast    int        `json:"days_since_last_transfer"`
	Engagement       Engagement `json:"engagement_level"`
}

// Activity counts the manager's transfers and rates engagement by days since
// the latest one, one level per three days. No transfers, or a blank manager
// id, means inactive.
func (a *Analyzer) Activity(managerID string, ledger []model.TransferRecord) Activity {
	act := Activity{Engagement: Inactive}
	if managerID == "" {
		return act
	}

	var last time.Time
	transfers, _ := book(managerID, ledger)
	for _, t := range transfers {
		if t.Side == Buy {
			act.Buys++
		} else {
			act.Sells++
		}
		if t.Date.After(last) {
			last = t.Date
		}
	}
	act.TotalTransfers = act.Buys + act.Sells
	act.TransfersPerWeek = float64(act.TotalTransfers) / float64(a.matchdays)
	if act.TotalTransfers == 0 {
		return act
	}

	day := model.Day(last)
	act.LastTransfer = &day
	act.DaysSinceLast = max(0, int(model.Day(a.now()).Sub(day)/(24*time.Hour)))
	act.Engagement = engagementLevels[min(len(engagementLevels)-1, act.DaysSinceLast/daysPerLevel)]
	return act
}

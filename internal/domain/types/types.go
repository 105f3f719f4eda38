// Package types contains the result shapes shared by the service and the HTTP API.
package types

import (
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/cohort"
	"github.com/okian/kickbase-analytics/internal/domain/forecast"
	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/domain/performance"
	"github.com/okian/kickbase-analytics/internal/domain/ranking"
	"github.com/okian/kickbase-analytics/internal/domain/regression"
)

// RegressionReport is a market value fit over the whole pool and per position.
type RegressionReport struct {
	Metric    performance.Metric                  `json:"metric"`
	Global    regression.Model                    `json:"global"`
	Positions map[model.Position]regression.Model `json:"positions"`
	Residuals []regression.Residual               `json:"residuals"`
	Stats     []cohort.Stats                      `json:"position_stats"`
}

// ForecastInput describes one projection. When Trend is empty it is read from
// Values, and Current defaults to the latest value in Values.
type ForecastInput struct {
	Current int64                     `json:"current_value"`
	Trend   forecast.Trend            `json:"trend,omitempty"`
	Values  []model.ValueHistoryPoint `json:"value_history,omitempty"`
	Start   time.Time                 `json:"start"`
	Horizon int                       `json:"horizon_days"`
}

// ForecastResult is a projection plus the value trends it was derived from, if any.
type ForecastResult struct {
	Trends *performance.ValueTrends `json:"trends,omitempty"`
	Series forecast.Series          `json:"forecast"`
}

// RankingReport is a ranking table and, when asked for, one player's profile.
type RankingReport struct {
	Metric   performance.Metric `json:"metric"`
	Position *model.Position    `json:"position,omitempty"`
	Entries  []ranking.Entry    `json:"entries"`
	Profile  *ranking.Profile   `json:"profile,omitempty"`
}

// Submission acknowledges a league batch.
type Submission struct {
	ReportID  string `json:"report_id"`
	Jobs      int    `json:"jobs"`
	Duplicate bool   `json:"duplicate"`
}

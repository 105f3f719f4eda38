// Package repository keeps league reports while their cohort jobs complete.
package repository

import (
	"context"
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/batch"
	"github.com/okian/kickbase-analytics/internal/domain/portfolio"
)

// Status describes how far a report has progressed.
type Status string

// Report statuses.
const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial" // every cohort finished, at least one failed
)

// Report is the league-wide result assembled from cohort jobs.
type Report struct {
	ID        string                           `json:"id"`
	LeagueID  string                           `json:"league_id"`
	AsOf      time.Time                        `json:"as_of"`
	CreatedAt time.Time                        `json:"created_at"`
	UpdatedAt time.Time                        `json:"updated_at"`
	Status    Status                           `json:"status"`
	Expected  int                              `json:"expected_cohorts"`
	Completed int                              `json:"completed_cohorts"`
	Positions map[string]*batch.PositionResult `json:"positions"`
	Managers  map[string]*portfolio.Report     `json:"managers"`
	Failures  map[string]string                `json:"failures,omitempty"`
}

// Store provides read/write access to league reports.
type Store interface {
	// Create registers a report under key unless one already exists, in
	// which case the existing report id is returned with created=false.
	Create(ctx context.Context, key string, r *Report) (id string, created bool)

	// Delete removes a report and frees its key.
	Delete(ctx context.Context, id string)

	// Put merges a cohort result into its report.
	Put(ctx context.Context, r *batch.Result) error

	// Fail records that a cohort could not be computed.
	Fail(ctx context.Context, j *batch.Job, cause error) error

	// Get returns a copy of a report. Returns ErrNotFound if unknown or evicted.
	Get(ctx context.Context, id string) (Report, error)

	// Len returns the number of reports held.
	Len() int
}

// Package batch splits a league snapshot into independent cohort jobs and
// computes each job's analytics. Jobs share the snapshot read-only, so any
// subset of them can run in any order or be abandoned.
package batch

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/kickbase-analytics/internal/domain/model"
)

// League is a complete snapshot of one league at one point in time.
type League struct {
	ID       string                   `json:"league_id"`
	AsOf     time.Time                `json:"as_of"`
	Players  []model.Player           `json:"players"`
	Managers []model.ManagerPortfolio `json:"managers"`
}

// Key identifies a league snapshot; resubmitting the same key is a no-op.
func (l *League) Key() string {
	return l.ID + "@" + l.AsOf.UTC().Format(time.RFC3339)
}

// Kind names what a job computes.
type Kind string

// Job kinds.
const (
	KindPosition Kind = "position"
	KindManager  Kind = "manager"
)

// Job is one cohort of a league report.
type Job struct {
	ID        string         `json:"id"`
	ReportID  string         `json:"report_id"`
	Kind      Kind           `json:"kind"`
	Position  model.Position `json:"position,omitempty"`
	ManagerID string         `json:"manager_id,omitempty"`
	League    *League        `json:"-"`
}

// Cohort is the key under which a job's result is stored in a report.
func (j *Job) Cohort() string {
	switch j.Kind {
	case KindPosition:
		return string(KindPosition) + ":" + j.Position.String()
	case KindManager:
		return string(KindManager) + ":" + j.ManagerID
	default:
		return string(j.Kind)
	}
}

// Validate checks what the cohort keys depend on. Every player needs a known
// position and every manager a unique, non-blank id; a repeated id would
// yield two jobs under one cohort and the report would never complete.
func (l *League) Validate() error {
	if len(l.Players) == 0 {
		return ErrEmptyLeague
	}
	if err := model.ValidatePlayers(l.Players); err != nil {
		return err
	}
	seen := make(map[string]bool, len(l.Managers))
	for i := range l.Managers {
		id := l.Managers[i].ManagerID
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("manager #%d: %w", i, ErrInvalidManager)
		}
		if seen[id] {
			return fmt.Errorf("manager %q: %w", id, ErrInvalidManager)
		}
		seen[id] = true
	}
	return nil
}

// Split creates one job per non-empty position and one per manager.
func Split(reportID string, l *League) ([]Job, error) {
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("split %s: %w", l.ID, err)
	}
	seen := make(map[model.Position]bool, len(model.Positions()))
	for i := range l.Players {
		seen[l.Players[i].Position] = true
	}

	jobs := make([]Job, 0, len(model.Positions())+len(l.Managers))
	for _, pos := range model.Positions() {
		if !seen[pos] {
			continue
		}
		jobs = append(jobs, Job{ID: uuid.NewString(), ReportID: reportID, Kind: KindPosition, Position: pos, League: l})
	}
	for i := range l.Managers {
		jobs = append(jobs, Job{ID: uuid.NewString(), ReportID: reportID, Kind: KindManager, ManagerID: l.Managers[i].ManagerID, League: l})
	}
	return jobs, nil
}

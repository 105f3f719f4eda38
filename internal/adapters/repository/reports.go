package repository

import (
	"container/list"
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/batch"
	"github.com/okian/kickbase-analytics/internal/domain/portfolio"
	"github.com/okian/kickbase-analytics/pkg/metrics"
)

const defaultCapacity = 256

type entry struct {
	key    string
	report Report
	done   map[string]bool // cohorts already merged or failed
	elem   *list.Element
}

// ReportStore is a bounded, in-memory Store. Creation order drives eviction.
type ReportStore struct {
	mu       sync.RWMutex
	byID     map[string]*entry
	byKey    map[string]string
	order    *list.List // of report ids, oldest at front
	capacity int
	now      func() time.Time
}

var _ Store = (*ReportStore)(nil)

// NewReportStore constructs an empty report store.
func NewReportStore(opts ...Option) *ReportStore {
	s := &ReportStore{
		byID:     make(map[string]*entry),
		byKey:    make(map[string]string),
		order:    list.New(),
		capacity: defaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateReportsStored(0)
	return s
}

// Create implements Store. The key check and the insert happen under one lock,
// so concurrent submissions of the same league create a single report.
func (s *ReportStore) Create(_ context.Context, key string, r *Report) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byKey[key]; ok {
		return id, false
	}

	now := s.now()
	rep := *r
	rep.CreatedAt, rep.UpdatedAt = now, now
	rep.Completed = 0
	rep.Positions = make(map[string]*batch.PositionResult)
	rep.Managers = make(map[string]*portfolio.Report)
	rep.Failures = make(map[string]string)
	rep.Status = statusOf(&rep)

	e := &entry{key: key, report: rep, done: make(map[string]bool)}
	e.elem = s.order.PushBack(rep.ID)
	s.byID[rep.ID] = e
	s.byKey[key] = rep.ID

	for s.order.Len() > s.capacity {
		oldest := s.order.Front()
		s.removeLocked(oldest.Value.(string))
		metrics.RecordReportEvicted()
	}
	metrics.UpdateReportsStored(len(s.byID))
	return rep.ID, true
}

// Delete implements Store.
func (s *ReportStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
	metrics.UpdateReportsStored(len(s.byID))
}

func (s *ReportStore) removeLocked(id string) {
	e, ok := s.byID[id]
	if !ok {
		return
	}
	s.order.Remove(e.elem)
	delete(s.byID, id)
	delete(s.byKey, e.key)
}

// Put implements Store. A cohort delivered twice is merged once.
func (s *ReportStore) Put(_ context.Context, r *batch.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[r.ReportID]
	if !ok {
		return fmt.Errorf("put %s: %w", r.ReportID, ErrNotFound)
	}
	if e.done[r.Cohort] {
		return nil
	}

	switch {
	case r.Position != nil:
		e.report.Positions[r.Position.Position.String()] = r.Position
	case r.Manager != nil:
		e.report.Managers[r.Manager.ManagerID] = r.Manager
	default:
		return fmt.Errorf("put %s/%s: %w", r.ReportID, r.Cohort, ErrUnknownCohort)
	}
	s.markLocked(e, r.Cohort)
	return nil
}

// Fail implements Store.
func (s *ReportStore) Fail(_ context.Context, j *batch.Job, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[j.ReportID]
	if !ok {
		return fmt.Errorf("fail %s: %w", j.ReportID, ErrNotFound)
	}
	cohort := j.Cohort()
	if e.done[cohort] {
		return nil
	}
	e.report.Failures[cohort] = cause.Error()
	s.markLocked(e, cohort)
	return nil
}

func (s *ReportStore) markLocked(e *entry, cohort string) {
	e.done[cohort] = true
	e.report.Completed = len(e.done)
	e.report.UpdatedAt = s.now()
	e.report.Status = statusOf(&e.report)
}

// Get implements Store. Cohort results are shared, the maps are copied.
func (s *ReportStore) Get(_ context.Context, id string) (Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordReportQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byID[id]
	if !ok {
		return Report{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	out := e.report
	out.Positions = maps.Clone(e.report.Positions)
	out.Managers = maps.Clone(e.report.Managers)
	out.Failures = maps.Clone(e.report.Failures)
	return out, nil
}

// Len implements Store.
func (s *ReportStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func statusOf(r *Report) Status {
	switch {
	case r.Completed < r.Expected:
		return StatusPending
	case len(r.Failures) > 0:
		return StatusPartial
	default:
		return StatusComplete
	}
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/batch"
	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/domain/portfolio"
)

func newReport(id string, expected int) *Report {
	return &Report{ID: id, LeagueID: "L1", Expected: expected}
}

func positionResult(reportID string, pos model.Position) *batch.Result {
	return &batch.Result{
		ReportID: reportID,
		Cohort:   "position:" + pos.String(),
		Position: &batch.PositionResult{Position: pos},
	}
}

func managerResult(reportID, managerID string) *batch.Result {
	return &batch.Result{
		ReportID: reportID,
		Cohort:   "manager:" + managerID,
		Manager:  &portfolio.Report{ManagerID: managerID},
	}
}

func TestReportStore_CreateIsIdempotentPerKey(t *testing.T) {
	ctx := context.Background()
	s := NewReportStore()

	id, created := s.Create(ctx, "L1@t0", newReport("r1", 2))
	if !created || id != "r1" {
		t.Fatalf("expected r1 created, got %q created=%v", id, created)
	}

	id, created = s.Create(ctx, "L1@t0", newReport("r2", 2))
	if created {
		t.Error("expected second create for the same key to be refused")
	}
	if id != "r1" {
		t.Errorf("expected existing id r1, got %q", id)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 report, got %d", s.Len())
	}
}

func TestReportStore_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	s := NewReportStore()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := s.Create(ctx, "same", newReport(fmt.Sprintf("r%d", i), 1)); ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("expected exactly one create to win, got %d", created)
	}
}

func TestReportStore_PutAndStatus(t *testing.T) {
	ctx := context.Background()
	s := NewReportStore()
	s.Create(ctx, "k", newReport("r1", 2))

	r, err := s.Get(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != StatusPending {
		t.Errorf("expected pending, got %s", r.Status)
	}

	if err := s.Put(ctx, positionResult("r1", model.MID)); err != nil {
		t.Fatal(err)
	}
	// A redelivered cohort is merged once.
	if err := s.Put(ctx, positionResult("r1", model.MID)); err != nil {
		t.Fatal(err)
	}
	r, _ = s.Get(ctx, "r1")
	if r.Completed != 1 || r.Status != StatusPending {
		t.Errorf("expected 1 completed and pending, got %d %s", r.Completed, r.Status)
	}
	if _, ok := r.Positions["MID"]; !ok {
		t.Error("expected MID result in partial report")
	}

	if err := s.Put(ctx, managerResult("r1", "m1")); err != nil {
		t.Fatal(err)
	}
	r, _ = s.Get(ctx, "r1")
	if r.Status != StatusComplete {
		t.Errorf("expected complete, got %s", r.Status)
	}
	if r.Managers["m1"] == nil {
		t.Error("expected manager m1 in report")
	}
}

func TestReportStore_FailMakesPartial(t *testing.T) {
	ctx := context.Background()
	s := NewReportStore()
	s.Create(ctx, "k", newReport("r1", 2))

	if err := s.Put(ctx, positionResult("r1", model.GK)); err != nil {
		t.Fatal(err)
	}
	job := &batch.Job{ReportID: "r1", Kind: batch.KindManager, ManagerID: "ghost"}
	if err := s.Fail(ctx, job, batch.ErrNoSuchTarget); err != nil {
		t.Fatal(err)
	}

	r, _ := s.Get(ctx, "r1")
	if r.Status != StatusPartial {
		t.Errorf("expected partial, got %s", r.Status)
	}
	if r.Failures["manager:ghost"] == "" {
		t.Errorf("expected failure recorded, got %v", r.Failures)
	}
}

func TestReportStore_UnknownReport(t *testing.T) {
	ctx := context.Background()
	s := NewReportStore()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Put(ctx, managerResult("missing", "m1")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	s.Create(ctx, "k", newReport("r1", 1))
	if err := s.Put(ctx, &batch.Result{ReportID: "r1", Cohort: "odd"}); !errors.Is(err, ErrUnknownCohort) {
		t.Errorf("expected ErrUnknownCohort, got %v", err)
	}
}

func TestReportStore_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := NewReportStore(WithCapacity(2))

	s.Create(ctx, "k1", newReport("r1", 1))
	s.Create(ctx, "k2", newReport("r2", 1))
	s.Create(ctx, "k3", newReport("r3", 1))

	if s.Len() != 2 {
		t.Fatalf("expected 2 reports, got %d", s.Len())
	}
	if _, err := s.Get(ctx, "r1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected r1 evicted, got %v", err)
	}
	// The evicted key can be submitted again.
	if _, created := s.Create(ctx, "k1", newReport("r4", 1)); !created {
		t.Error("expected evicted key to be reusable")
	}
}

func TestReportStore_DeleteFreesKey(t *testing.T) {
	ctx := context.Background()
	s := NewReportStore()

	s.Create(ctx, "k", newReport("r1", 1))
	s.Delete(ctx, "r1")
	s.Delete(ctx, "r1")

	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
	if _, created := s.Create(ctx, "k", newReport("r2", 1)); !created {
		t.Error("expected key to be free after delete")
	}
}

func TestReportStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewReportStore(WithClock(func() time.Time { return at }))
	s.Create(ctx, "k", newReport("r1", 2))

	r, _ := s.Get(ctx, "r1")
	r.Positions["FWD"] = &batch.PositionResult{}

	again, _ := s.Get(ctx, "r1")
	if len(again.Positions) != 0 {
		t.Error("mutating a returned report must not change the store")
	}
	if !again.CreatedAt.Equal(at) {
		t.Errorf("expected injected clock, got %v", again.CreatedAt)
	}
}

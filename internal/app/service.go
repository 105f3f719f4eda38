// Package service wires the analytics core to the job queue, worker pool and
// report store, and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/okian/kickbase-analytics/internal/adapters/mq/queue"
	"github.com/okian/kickbase-analytics/internal/adapters/mq/worker"
	"github.com/okian/kickbase-analytics/internal/adapters/repository"
	"github.com/okian/kickbase-analytics/internal/domain/batch"
	"github.com/okian/kickbase-analytics/internal/domain/forecast"
	"github.com/okian/kickbase-analytics/internal/domain/performance"
	"github.com/okian/kickbase-analytics/internal/domain/portfolio"
	"github.com/okian/kickbase-analytics/internal/domain/similarity"
	"github.com/okian/kickbase-analytics/internal/domain/types"
	"github.com/okian/kickbase-analytics/pkg/logger"
	"github.com/okian/kickbase-analytics/pkg/metrics"
)

const (
	systemMetricsInterval = 10 * time.Second
	stopTimeout           = 30 * time.Second
)

// Service runs league batches in the background and answers synchronous
// analytics queries directly from the core.
type Service struct {
	mu sync.RWMutex

	reports   repository.Store
	jobs      *queue.InMemoryQueue
	pool      *worker.Pool
	processor *batch.Processor
	analyzer  *portfolio.Analyzer
	submits   singleflight.Group

	workerCount  int
	queueSize    int
	maxReports   int
	jobTimeout   time.Duration
	similarLimit int
	horizon      int
	maxBuyRatio  float64
	reportMetric performance.Metric
	now          func() time.Time

	started bool
	stopCh  chan struct{}

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU() * 2,
		queueSize:    10_000,
		maxReports:   256,
		similarLimit: similarity.DefaultLimit,
		horizon:      forecast.DefaultHorizon,
		maxBuyRatio:  0.7,
		reportMetric: performance.MetricAvgPoints,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.analyzer = portfolio.New(
		portfolio.WithMaxSingleBuyRatio(s.maxBuyRatio),
		portfolio.WithClock(s.now),
	)
	return s
}

// Start initializes and starts the background components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting analytics service...")

	s.reports = repository.NewReportStore(repository.WithCapacity(s.maxReports))
	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.processor = batch.NewProcessor(
		batch.WithMetric(s.reportMetric),
		batch.WithHorizon(s.horizon),
		batch.WithSimilarLimit(s.similarLimit),
		batch.WithAnalyzer(s.analyzer),
	)
	s.pool = worker.NewPool(s.workerCount, s.jobs, s.processor, s.reports,
		worker.WithLogger(s.logger),
		worker.WithJobTimeout(s.jobTimeout),
	)
	s.pool.Start(ctx)

	s.stopCh = make(chan struct{})
	go s.systemMetrics(ctx, s.stopCh)

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxReports", s.maxReports),
	)
	return nil
}

// Stop drains the worker pool and stops background loops.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping analytics service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	close(s.stopCh)

	s.started = false
	s.logger.Info(ctx, "analytics service stopped")
}

func (s *Service) systemMetrics(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	metrics.UpdateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			metrics.UpdateSystemMetrics()
		}
	}
}

// SubmitLeague splits a league snapshot into cohort jobs and queues them.
// Submitting a snapshot that is already known returns its report id with
// Duplicate set. Concurrent submissions of one snapshot share a single call.
func (s *Service) SubmitLeague(ctx context.Context, l *batch.League) (types.Submission, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return types.Submission{}, ErrNotStarted
	}

	v, err, _ := s.submits.Do(l.Key(), func() (any, error) {
		return s.submit(ctx, l)
	})
	if err != nil {
		return types.Submission{}, err
	}
	return v.(types.Submission), nil
}

func (s *Service) submit(ctx context.Context, l *batch.League) (types.Submission, error) {
	reportID := uuid.NewString()
	jobs, err := batch.Split(reportID, l)
	if err != nil {
		metrics.RecordLeagueSubmitted("rejected")
		return types.Submission{}, err
	}

	id, created := s.reports.Create(ctx, l.Key(), &repository.Report{
		ID:       reportID,
		LeagueID: l.ID,
		AsOf:     l.AsOf,
		Expected: len(jobs),
	})
	if !created {
		metrics.RecordLeagueSubmitted("duplicate")
		s.logger.Debug(ctx, "league already submitted", logger.String("league", l.ID), logger.String("report", id))
		return types.Submission{ReportID: id, Duplicate: true}, nil
	}

	for i := range jobs {
		if err := s.jobs.Enqueue(ctx, &jobs[i]); err != nil {
			// Jobs already queued for this report find it gone and are dropped.
			s.reports.Delete(ctx, reportID)
			metrics.RecordLeagueSubmitted("backpressure")
			return types.Submission{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
	}

	metrics.RecordLeagueSubmitted("accepted")
	s.logger.Info(ctx, "league queued",
		logger.String("league", l.ID),
		logger.String("report", reportID),
		logger.Int("jobs", len(jobs)),
	)
	return types.Submission{ReportID: reportID, Jobs: len(jobs)}, nil
}

// Report returns a league report, partial while cohorts are still pending.
func (s *Service) Report(ctx context.Context, id string) (repository.Report, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return repository.Report{}, ErrNotStarted
	}
	return s.reports.Get(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"maxReports":   s.maxReports,
		"reportMetric": string(s.reportMetric),
	}
	if s.started {
		queueLen := s.jobs.Len()
		stats["queueLength"] = queueLen
		stats["reports"] = s.reports.Len()
		stats["processedJobs"] = s.pool.Processed()
		metrics.UpdateQueueSize(queueLen)
	}
	return stats
}

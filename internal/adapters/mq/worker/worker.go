// Package worker runs cohort jobs off the queue and hands results to a sink.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/batch"
	"github.com/okian/kickbase-analytics/pkg/logger"
	"github.com/okian/kickbase-analytics/pkg/metrics"
)

const (
	metricsUpdateInterval = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Processor computes one cohort job.
type Processor interface {
	Process(ctx context.Context, j *batch.Job) (batch.Result, error)
}

// Sink receives the outcome of every job.
type Sink interface {
	Put(ctx context.Context, r *batch.Result) error
	Fail(ctx context.Context, j *batch.Job, cause error) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan *batch.Job
}

// InMemoryWorker pulls jobs until the queue drains, ctx ends or Shutdown is called.
type InMemoryWorker struct {
	queue      Queue
	processor  Processor
	sink       Sink
	name       string
	jobTimeout time.Duration
	processed  *atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, p Processor, s Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		processor: p,
		sink:      s,
		name:      "worker",
		processed: new(atomic.Int64),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, j); err != nil {
				w.logger.Error(ctx, "job failed", logger.String("cohort", j.Cohort()), logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker after its current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, j *batch.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()
	kind := string(j.Kind)

	pctx := ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	res, err := w.processor.Process(pctx, j)
	if err == nil {
		// A result computed past the deadline is discarded.
		err = pctx.Err()
	}
	if err != nil {
		metrics.RecordJobFailed(kind)
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "process_error")
		if serr := w.sink.Fail(ctx, j, err); serr != nil {
			w.logger.Warn(ctx, "recording failure", logger.String("report", j.ReportID), logger.Error(serr))
		}
		return fmt.Errorf("process job %s: %w", j.ID, err)
	}

	if err := w.sink.Put(ctx, &res); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "sink_error")
		return fmt.Errorf("store job %s: %w", j.ID, err)
	}
	metrics.RecordJobCompleted(kind)
	w.processed.Add(1)
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	shutdown chan struct{}

	processed     atomic.Int64
	lastProcessed int64
	lastTick      time.Time

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses
// runtime.NumCPU(). opts apply to every worker; names are assigned by the pool.
func NewPool(workerCount int, q Queue, p Processor, s Sink, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		shutdown: make(chan struct{}),
		lastTick: time.Now(),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := range workerCount {
		w := NewInMemoryWorker(q, p, s, append(slices.Clone(opts), WithName("worker-"+strconv.Itoa(i)))...)
		w.processed = &pool.processed
		pool.workers[i] = w
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerJobsPerSecond(0)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns the number of jobs completed successfully.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.reportRate(ctx)
}

func (p *Pool) reportRate(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case now := <-ticker.C:
			total := p.processed.Load()
			if secs := now.Sub(p.lastTick).Seconds(); secs > 0 {
				metrics.UpdateWorkerJobsPerSecond(float64(total-p.lastProcessed) / secs)
			}
			p.lastProcessed, p.lastTick = total, now
		}
	}
}

// Shutdown closes the queue when it can, then waits for every worker.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	close(p.shutdown)

	ctx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return err
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	return nil
}

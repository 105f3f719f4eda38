package service

import (
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/performance"
	"github.com/okian/kickbase-analytics/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of cohort workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxReports bounds the number of league reports kept.
func WithMaxReports(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxReports = n
		}
	}
}

// WithJobTimeout bounds each cohort computation. Zero disables the bound.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.jobTimeout = d
		}
	}
}

// WithSimilarLimit sets the default number of similar players.
func WithSimilarLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.similarLimit = n
		}
	}
}

// WithForecastHorizon sets the default forecast length in days.
func WithForecastHorizon(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.horizon = days
		}
	}
}

// WithMaxSingleBuyRatio caps one acquisition as a share of spending power.
func WithMaxSingleBuyRatio(r float64) Option {
	return func(s *Service) {
		if r > 0 && r <= 1 {
			s.maxBuyRatio = r
		}
	}
}

// WithReportMetric selects the metric league reports regress and rank by.
func WithReportMetric(m performance.Metric) Option {
	return func(s *Service) {
		s.reportMetric = m
	}
}

// WithClock overrides the time source for portfolio activity.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

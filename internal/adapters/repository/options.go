package repository

import "time"

// Option applies a configuration option to the ReportStore.
type Option func(*ReportStore)

// WithCapacity bounds the number of reports kept. The oldest report is evicted first.
func WithCapacity(n int) Option {
	return func(s *ReportStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *ReportStore) {
		if now != nil {
			s.now = now
		}
	}
}

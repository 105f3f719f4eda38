package batch

import (
	"github.com/okian/kickbase-analytics/internal/domain/performance"
	"github.com/okian/kickbase-analytics/internal/domain/portfolio"
)

// Option applies a configuration option to the Processor.
type Option func(*Processor)

// WithMetric sets the metric used for regression and rankings.
func WithMetric(m performance.Metric) Option {
	return func(p *Processor) {
		if m != "" {
			p.metric = m
		}
	}
}

// WithHorizon sets the forecast horizon in days.
func WithHorizon(days int) Option {
	return func(p *Processor) {
		if days > 0 {
			p.horizon = days
		}
	}
}

// WithSimilarLimit sets how many alternatives are listed per top player.
func WithSimilarLimit(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.similarLimit = n
		}
	}
}

// WithPicks sets how many over and under performers are listed.
func WithPicks(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.picks = n
		}
	}
}

// WithAnalyzer sets the portfolio analyzer for manager jobs.
func WithAnalyzer(a *portfolio.Analyzer) Option {
	return func(p *Processor) {
		if a != nil {
			p.analyzer = a
		}
	}
}

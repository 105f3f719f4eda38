package portfolio

import (
	"time"

	"github.com/shopspring/decimal"
)

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithMaxSingleBuyRatio caps a single acquisition as a share of spending power.
// Ratios outside (0, 1] are ignored.
func WithMaxSingleBuyRatio(r float64) Option {
	return func(a *Analyzer) {
		if r > 0 && r <= 1 {
			a.maxSingleBuy = decimal.NewFromFloat(r)
		}
	}
}

// WithMatchdaysPerSeason sets the divisor for weekly transfer activity.
func WithMatchdaysPerSeason(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.matchdays = n
		}
	}
}

// WithPickCount sets how many best and worst value picks are reported.
func WithPickCount(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.picks = n
		}
	}
}

// WithClock sets the time source used for activity recency.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

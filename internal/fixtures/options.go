package fixtures

import (
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/model"
)

// Option configures a Generator.
type Option func(*Generator)

// WithAsOf sets the snapshot day. Value histories end on it.
func WithAsOf(t time.Time) Option {
	return func(g *Generator) {
		g.asOf = model.Day(t)
	}
}

// WithMatchdays sets the length of every player's points history.
func WithMatchdays(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.matchdays = n
		}
	}
}

// WithValueDays sets the length of every player's value history.
func WithValueDays(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.valueDays = n
		}
	}
}

// WithTeams sets how many clubs players are spread over.
func WithTeams(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.teams = n
		}
	}
}

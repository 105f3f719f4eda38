// Package forecast projects market value along a trend with a confidence
// band that widens over the horizon. Projections are deterministic.
package forecast

import (
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/domain/performance"
)

// DefaultHorizon is the number of projected days when none is given.
const DefaultHorizon = 30

const (
	baseConfidence   = 0.05
	growthConfidence = 0.15
	daysPerWeek      = 7
	trendCutoffPct   = 1.0
)

// Trend is the direction a value is assumed to move.
type Trend string

// Trends.
const (
	Up     Trend = "up"
	Down   Trend = "down"
	Stable Trend = "stable"
)

// ParseTrend validates a trend name.
func ParseTrend(s string) (Trend, error) {
	switch t := Trend(s); t {
	case Up, Down, Stable:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTrend, s)
	}
}

// UnmarshalText rejects unknown trends.
func (t *Trend) UnmarshalText(b []byte) error {
	v, err := ParseTrend(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Factor is the weekly compounding factor of t.
func (t Trend) Factor() float64 {
	switch t {
	case Up:
		return 1.02
	case Down:
		return 0.98
	default:
		return 1.0
	}
}

// TrendOf reads the direction from the seven day change.
func TrendOf(v performance.ValueTrends) Trend {
	switch {
	case v.Change7dPct > trendCutoffPct:
		return Up
	case v.Change7dPct < -trendCutoffPct:
		return Down
	default:
		return Stable
	}
}

// Point is the projection for one day.
type Point struct {
	Day            int       `json:"day"`
	Date           time.Time `json:"date"`
	Value          float64   `json:"value"`
	ConfidenceLow  float64   `json:"confidence_low"`
	ConfidenceHigh float64   `json:"confidence_high"`
}

// Series is a finite projection that can be iterated any number of times.
type Series struct {
	start   time.Time
	current float64
	trend   Trend
	horizon int
}

// New prepares a projection of current starting the day after start.
// A non-positive horizon means DefaultHorizon.
func New(current int64, trend Trend, start time.Time, horizon int) Series {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	return Series{start: model.Day(start), current: float64(current), trend: trend, horizon: horizon}
}

// Len is the number of projected days.
func (s Series) Len() int { return s.horizon }

// Trend returns the assumed direction.
func (s Series) Trend() Trend { return s.trend }

// At projects day d, 1 <= d <= Len.
func (s Series) At(d int) Point {
	projected := s.current * math.Pow(s.trend.Factor(), float64(d)/daysPerWeek)
	conf := baseConfidence + float64(d)/float64(s.horizon)*growthConfidence
	return Point{
		Day:            d,
		Date:           s.start.AddDate(0, 0, d),
		Value:          projected,
		ConfidenceLow:  projected * (1 - conf),
		ConfidenceHigh: projected * (1 + conf),
	}
}

// All yields the projection day by day.
func (s Series) All() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for d := 1; d <= s.horizon; d++ {
			if !yield(s.At(d)) {
				return
			}
		}
	}
}

// Points materialises the series.
func (s Series) Points() []Point {
	out := make([]Point, 0, s.horizon)
	for p := range s.All() {
		out = append(out, p)
	}
	return out
}

// MarshalJSON encodes the materialised points.
func (s Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Points())
}

package performance

import "fmt"

// FormTrend classifies recent form against the season average.
type FormTrend string

// Form trend buckets.
const (
	TrendRising        FormTrend = "rising"
	TrendRisingSlight  FormTrend = "rising_slight"
	TrendStable        FormTrend = "stable"
	TrendFallingSlight FormTrend = "falling_slight"
	TrendFalling       FormTrend = "falling"
)

// ClassifyTrend buckets the relative gap between form and season average.
func ClassifyTrend(form, seasonAvg float64) FormTrend {
	var delta float64
	if seasonAvg != 0 {
		delta = (form - seasonAvg) / seasonAvg
	}
	switch {
	case delta > risingCutoff:
		return TrendRising
	case delta > slightCutoff:
		return TrendRisingSlight
	case delta >= -slightCutoff:
		return TrendStable
	case delta >= -risingCutoff:
		return TrendFallingSlight
	default:
		return TrendFalling
	}
}

// Metric selects one scalar from a player and its snapshot.
type Metric string

// Selectable metrics.
const (
	MetricMarketValue     Metric = "market_value"
	MetricTotalPoints     Metric = "total_points"
	MetricAvgPoints       Metric = "avg_points"
	MetricPPM             Metric = "ppm"
	MetricForm            Metric = "form"
	MetricStability       Metric = "stability"
	MetricPointsPerMinute Metric = "points_per_minute"
	MetricEurosPerPoint   Metric = "euros_per_point"
)

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricMarketValue, MetricTotalPoints, MetricAvgPoints, MetricPPM,
		MetricForm, MetricStability, MetricPointsPerMinute, MetricEurosPerPoint:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
}

// UnmarshalText rejects unknown metric names.
func (m *Metric) UnmarshalText(b []byte) error {
	v, err := ParseMetric(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Of returns the metric value for a player and its snapshot.
func (m Metric) Of(totalPoints int, marketValue int64, s *Snapshot) float64 {
	switch m {
	case MetricMarketValue:
		return float64(marketValue)
	case MetricTotalPoints:
		return float64(totalPoints)
	case MetricAvgPoints:
		return s.AvgPoints
	case MetricPPM:
		return s.PPM
	case MetricForm:
		return s.Form
	case MetricStability:
		return s.Stability
	case MetricPointsPerMinute:
		return s.PointsPerMinute
	case MetricEurosPerPoint:
		return s.EurosPerPoint
	default:
		return 0
	}
}

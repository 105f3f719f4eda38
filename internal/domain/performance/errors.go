package performance

import "errors"

// Sentinel kinds for this package.
var (
	ErrUnknownMetric = errors.New("unknown metric")
)

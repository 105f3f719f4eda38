package forecast

import "errors"

// Sentinel kinds for this package.
var (
	ErrUnknownTrend = errors.New("unknown trend")
)

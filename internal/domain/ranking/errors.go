package ranking

import "errors"

// Sentinel kinds for this package.
var (
	ErrNotFound = errors.New("player not in pool")
)

package batch

import "errors"

// Sentinel kinds for batch processing.
var (
	ErrUnknownKind    = errors.New("unknown job kind")
	ErrEmptyLeague    = errors.New("league has no players")
	ErrNoSuchTarget   = errors.New("job target not in league")
	ErrInvalidManager = errors.New("manager id missing or repeated")
)

package model

import "fmt"

// Status is a player's availability.
type Status string

// Known statuses.
const (
	StatusFit       Status = "fit"
	StatusInjured   Status = "injured"
	StatusSuspended Status = "suspended"
	StatusDoubt     Status = "doubt"
	StatusUnknown   Status = "unknown"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusFit, StatusInjured, StatusSuspended, StatusDoubt, StatusUnknown:
		return true
	default:
		return false
	}
}

// UnmarshalText rejects unknown codes. An empty value decodes as unknown.
func (s *Status) UnmarshalText(b []byte) error {
	v := Status(b)
	if v == "" {
		*s = StatusUnknown
		return nil
	}
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, string(b))
	}
	*s = v
	return nil
}

// Result is the outcome of a match from the player's team perspective.
type Result string

// Match results. ResultNone marks a matchday without a recorded result.
const (
	ResultNone Result = ""
	ResultWin  Result = "win"
	ResultDraw Result = "draw"
	ResultLoss Result = "loss"
)

// UnmarshalText rejects unknown codes.
func (r *Result) UnmarshalText(b []byte) error {
	switch v := Result(b); v {
	case ResultNone, ResultWin, ResultDraw, ResultLoss:
		*r = v
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownResult, string(b))
	}
}

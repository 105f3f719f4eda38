// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Position is the closed set of roster positions. The zero value is invalid.
type Position int

// Positions as numbered by the upstream game API.
const (
	GK Position = iota + 1
	DEF
	MID
	FWD
)

// Positions returns every valid position in canonical order.
func Positions() []Position {
	return []Position{GK, DEF, MID, FWD}
}

// Valid reports whether p is one of the four roster positions.
func (p Position) Valid() bool {
	switch p {
	case GK, DEF, MID, FWD:
		return true
	default:
		return false
	}
}

func (p Position) String() string {
	switch p {
	case GK:
		return "GK"
	case DEF:
		return "DEF"
	case MID:
		return "MID"
	case FWD:
		return "FWD"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// ParsePosition accepts the short label (GK, DEF, MID, FWD) or the
// upstream numeric code (1-4).
func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GK", "1":
		return GK, nil
	case "DEF", "2":
		return DEF, nil
	case "MID", "3":
		return MID, nil
	case "FWD", "4":
		return FWD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPosition, s)
	}
}

// MarshalText encodes the short label.
func (p Position) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPosition, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a short label or numeric code.
func (p *Position) UnmarshalText(b []byte) error {
	v, err := ParsePosition(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// UnmarshalJSON accepts both "MID" and 3.
func (p *Position) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		v := Position(n)
		if !v.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownPosition, n)
		}
		*p = v
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownPosition, string(b))
	}
	return p.UnmarshalText([]byte(s))
}

package model

import (
	"fmt"
	"time"
)

// ValueHistoryPoint is a market value observed on one calendar day.
type ValueHistoryPoint struct {
	Date  time.Time `json:"date"`
	Value int64     `json:"value"`
}

// ValueHistory is ordered by date with at most one point per calendar day.
type ValueHistory []ValueHistoryPoint

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Append returns a new history with p added. The receiver is never modified.
// p must fall on a calendar day strictly after the last point.
func (h ValueHistory) Append(p ValueHistoryPoint) (ValueHistory, error) {
	p.Date = Day(p.Date)
	if n := len(h); n > 0 && !p.Date.After(Day(h[n-1].Date)) {
		return h, fmt.Errorf("%w: %s not after %s", ErrValueOutOfOrder,
			p.Date.Format(time.DateOnly), Day(h[n-1].Date).Format(time.DateOnly))
	}
	out := make(ValueHistory, len(h), len(h)+1)
	copy(out, h)
	return append(out, p), nil
}

// Latest returns the most recent point.
func (h ValueHistory) Latest() (ValueHistoryPoint, bool) {
	if len(h) == 0 {
		return ValueHistoryPoint{}, false
	}
	return h[len(h)-1], true
}

// At returns the value on day or the closest earlier day.
func (h ValueHistory) At(day time.Time) (int64, bool) {
	day = Day(day)
	for i := len(h) - 1; i >= 0; i-- {
		if !Day(h[i].Date).After(day) {
			return h[i].Value, true
		}
	}
	return 0, false
}

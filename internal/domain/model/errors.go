package model

import "errors"

// Sentinel kinds for ingestion-boundary validation.
var (
	ErrUnknownPosition = errors.New("unknown position")
	ErrUnknownStatus   = errors.New("unknown player status")
	ErrUnknownResult   = errors.New("unknown match result")
	ErrValueOutOfOrder = errors.New("value history point out of order")
	ErrNotParty        = errors.New("manager is not a party of the transfer")
)

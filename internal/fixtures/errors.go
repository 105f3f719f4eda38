package fixtures

import "errors"

var (
	// ErrInvalidSize is returned when a league is requested with a negative or empty roster.
	ErrInvalidSize = errors.New("invalid league size")
	// ErrUnhealthy is returned when the target service fails its health check.
	ErrUnhealthy = errors.New("service unhealthy")
	// ErrUnexpectedStatus is returned for HTTP responses the runner cannot interpret.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrVerification is returned when a finished report disagrees with the submission.
	ErrVerification = errors.New("verification failed")
)

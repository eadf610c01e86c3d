package domain

import "errors"

var (
	// Authorization errors
	ErrUnauthenticated = errors.New("no session user")

	// Request errors
	ErrInvalidInput = errors.New("invalid input")

	// Connection errors
	ErrNotConnected   = errors.New("lms not connected")
	ErrHostNotAllowed = errors.New("lms host is not allow-listed")
	ErrNotFound       = errors.New("not found")

	// Credential errors
	ErrReconnectRequired = errors.New("reconnect required")
	ErrInvalidToken      = errors.New("invalid access token")

	// Upstream errors
	ErrUpstream = errors.New("lms api error")

	// Run errors
	ErrRunInProgress = errors.New("a sync is already running for this owner")
	ErrShuttingDown  = errors.New("server is shutting down")
)

// Reasons carried by ReconnectError.
const (
	ReasonTokenMissing   = "Canvas token missing; reconnect"
	ReasonTokenCorrupted = "Canvas token corrupted; reconnect"
	ReasonTokenExpired   = "Canvas token expired; please reconnect"
)

// ReconnectError is a credential failure only the user can fix, by connecting
// again. It matches ErrReconnectRequired.
type ReconnectError struct {
	Reason string
	Err    error
}

func (e *ReconnectError) Error() string {
	return e.Reason
}

func (e *ReconnectError) Unwrap() error {
	return e.Err
}

func (e *ReconnectError) Is(target error) bool {
	return target == ErrReconnectRequired
}

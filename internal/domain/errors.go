package domain

import "errors"

// ErrMissingHotelEmail is returned when no destination mailbox resolves.
// Handlers map it to HTTP 400.
var ErrMissingHotelEmail = errors.New("missing hotel email")

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("not found")

// TransportError wraps a failed mail send. Handlers map it to HTTP 500 and
// surface the cause's message.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

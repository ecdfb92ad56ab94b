package leafclient

import (
	"errors"
	"fmt"
)

var (
	// ErrBaseURLRequired is returned by Build when no backend base URL is configured.
	ErrBaseURLRequired = errors.New("base url required")
	// ErrSessionRequired is returned by Build when no session store is attached.
	ErrSessionRequired = errors.New("session store required")
	// ErrBuilderUsed is returned when Build is called twice on the same builder.
	ErrBuilderUsed = errors.New("builder already used")
)

// APIError is an application-level failure: the backend answered with a
// well-formed envelope whose code is not zero. Message carries the envelope's
// own message (or the generic fallback when the envelope had none), which is
// also what the rejected call's caller sees.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// UserMessage returns the human-readable failure text. The session store uses
// it to pick the most specific message after a failed login or register call.
func (e *APIError) UserMessage() string {
	return e.Message
}

// TransportError is a transport-level failure: the request could not be built,
// could not be sent, received no response, or received a response that does not
// carry a usable envelope. Status is the HTTP status code when a response was
// received and zero otherwise.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport error (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

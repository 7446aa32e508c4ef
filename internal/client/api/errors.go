package api

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a request exceeds its deadline. Retrying
	// the triggering action is always safe.
	ErrTimeout = errors.New("request timeout")

	// ErrUnauthorized is returned on HTTP 401. The registered unauthorized
	// callback has already fired by the time a caller sees this error.
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is any non-2xx response other than 401. Detail carries the
// server-provided message when the error body could be parsed.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Detail)
}

// AsStatusError unwraps err into a *StatusError if there is one in the chain.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

package client

import "errors"

var (
	// ErrUnavailable is wrapped by every transport-class failure: network
	// errors, timeouts, 5xx answers and an open circuit.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized is wrapped by 401/403 answers.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMalformedResponse is wrapped when a body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

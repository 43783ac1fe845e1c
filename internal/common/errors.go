package common

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the UI can decide how to present it.
type Kind string

const (
	// KindInput is a local validation failure caught before any network call.
	KindInput Kind = "input"
	// KindAuth is a missing or rejected session token.
	KindAuth Kind = "auth"
	// KindRemote is a non-success answer from the API.
	KindRemote Kind = "remote"
	// KindTransport covers network failures, 5xx answers and an open circuit.
	KindTransport Kind = "transport"
	// KindDataShape is a response that decoded but lacks required fields.
	KindDataShape Kind = "data_shape"
)

var (
	ErrNoSession          = errors.New("no authentication token found, please log in again")
	ErrNoPendingChallenge = errors.New("no pending OTP request")
	ErrOTPNotVerified     = errors.New("reset OTP has not been verified")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmptyField         = errors.New("field must not be empty")
	ErrMissingIdentity    = errors.New("record has no identity")
	ErrNothingPending     = errors.New("nothing awaiting confirmation")
	ErrContextClosed      = errors.New("view is no longer active")
	ErrInvalidDepartment  = errors.New("invalid department")
)

// Error is a classified failure. Message is the text meant for the user and
// may come from the server verbatim.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a classified error.
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// InputError wraps a local validation sentinel.
func InputError(err error) *Error {
	return &Error{Kind: KindInput, Message: err.Error(), Err: err}
}

// KindOf reports the class of err. Errors that were never classified are
// treated as transport failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage returns the message carried by a classified error, or fallback
// when there is none. Transport failures always use the fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindTransport || e.Message == "" {
		return fallback
	}
	return e.Message
}

// Package wsforgeerr defines the closed set of failure kinds used across
// the framework core, following the teacher's plain errors.New /
// fmt.Errorf("%w") style rather than a generated error package.
package wsforgeerr

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure categories the core can produce.
type Kind int

const (
	Transport Kind = iota
	IO
	JSONDecode
	SessionNotFound
	RouteNotFound
	InvalidMessage
	Handler
	Extractor
	Custom
)

func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case IO:
		return "io"
	case JSONDecode:
		return "json_decode"
	case SessionNotFound:
		return "session_not_found"
	case RouteNotFound:
		return "route_not_found"
	case InvalidMessage:
		return "invalid_message"
	case Handler:
		return "handler"
	case Extractor:
		return "extractor"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// Error wraps an inner error with its Kind. It implements Unwrap so
// callers can still use errors.Is/errors.As against the wrapped cause.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error of the given kind with a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an Error of the given kind wrapping cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// KindOf returns the Kind of err if it is, or wraps, a *Error anywhere in
// its chain, and false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Package respond implements the response conversion step: turning a
// handler's declared return value into an optional outbound Message, per
// spec.md §4.8.
package respond

import (
	"wsforge/pkg/message"
	"wsforge/pkg/wsforgeerr"
)

// Empty is the unit return type: it converts to no outbound message.
type Empty struct{}

// JSONBody wraps a value that should be encoded as a Text message whose
// payload is the value's JSON encoding.
type JSONBody[T any] struct {
	Value T
}

// Responder converts a handler's return value of type R into an optional
// outbound Message.
type Responder[R any] func(R) (*message.Message, error)

// EmptyResponder never produces an outbound message.
func EmptyResponder(_ Empty) (*message.Message, error) { return nil, nil }

// TextResponder converts a plain string return into a Text message.
func TextResponder(s string) (*message.Message, error) {
	m, err := message.Text(s)
	if err != nil {
		return nil, wsforgeerr.Wrap(wsforgeerr.Handler, "text response", err)
	}
	return &m, nil
}

// MessageResponder uses a Message return value as-is.
func MessageResponder(m message.Message) (*message.Message, error) {
	return &m, nil
}

// BytesResponder converts a []byte return into a Binary message.
func BytesResponder(b []byte) (*message.Message, error) {
	m := message.Binary(b)
	return &m, nil
}

// JSONResponder converts a JSONBody[T] return into a Text message whose
// payload is the JSON encoding of the inner value. Encoding failure is a
// wsforgeerr.Handler error.
func JSONResponder[T any](body JSONBody[T]) (*message.Message, error) {
	text, err := jsonEncode(body.Value)
	if err != nil {
		return nil, wsforgeerr.Wrap(wsforgeerr.Handler, "json response encoding", err)
	}
	m, err := message.Text(text)
	if err != nil {
		return nil, wsforgeerr.Wrap(wsforgeerr.Handler, "json response", err)
	}
	return &m, nil
}

// Result wraps a handler's success value alongside the possibility of
// failure, so the "result of any of the above" clause in spec.md §4.8 has
// a concrete representation without requiring Go's (T, error) pair to be
// threaded through the Responder signature itself.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok builds a successful Result.
func Ok[T any](v T) Result[T] { return Result[T]{Value: v} }

// Fail builds a failed Result.
func Fail[T any](err error) Result[T] { return Result[T]{Err: err} }

// ResultResponder adapts a Responder[T] to accept Result[T]: success is
// converted as usual, failure surfaces as an error the dispatcher turns
// into an "Error: ..." text frame.
func ResultResponder[T any](inner Responder[T]) Responder[Result[T]] {
	return func(r Result[T]) (*message.Message, error) {
		if r.Err != nil {
			return nil, r.Err
		}
		return inner(r.Value)
	}
}

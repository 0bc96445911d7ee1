// Package extract implements the extractor composition model: a capability
// to produce a typed value from the current frame plus ambient context.
// Position and order within a handler's argument list are irrelevant —
// each extractor reads independently from the shared Request, there is no
// stateful cursor, matching spec.md §4.7.
package extract

import (
	"context"

	"wsforge/internal/ambient"
	"wsforge/internal/registry"
	"wsforge/pkg/message"
	"wsforge/pkg/wsforgeerr"
)

// Request bundles everything an extractor may read: the inbound message,
// the originating connection, process-lifetime app state, and the
// per-invocation extensions bag.
type Request struct {
	Message    message.Message
	Conn       registry.Connection
	AppState   *ambient.AppState
	Extensions *ambient.Extensions
}

// Extractor produces a T from a Request, or fails with a
// wsforgeerr.Extractor error.
type Extractor[T any] func(ctx context.Context, req *Request) (T, error)

// MessageExtractor yields the full inbound Message unchanged.
func MessageExtractor(_ context.Context, req *Request) (message.Message, error) {
	return req.Message, nil
}

// ConnectionExtractor yields a clone of the originating Connection.
func ConnectionExtractor(_ context.Context, req *Request) (registry.Connection, error) {
	return req.Conn, nil
}

// ConnInfoExtractor yields a copy of the connection's ConnectionInfo.
func ConnInfoExtractor(_ context.Context, req *Request) (registry.ConnectionInfo, error) {
	return req.Conn.Info(), nil
}

// RawBytes yields the message's raw payload bytes regardless of kind.
func RawBytes(_ context.Context, req *Request) ([]byte, error) {
	return req.Message.AsBytes(), nil
}

// JSON decodes the Text payload as T. It fails with wsforgeerr.Extractor
// if the message is not Text or decoding fails. Multiple JSON extractors
// in one handler re-decode the same payload; implementations may cache but
// must not rely on caching semantically.
func JSON[T any](_ context.Context, req *Request) (T, error) {
	var zero T
	decoded, err := message.DecodeJSON[T](req.Message)
	if err != nil {
		return zero, wsforgeerr.Wrap(wsforgeerr.Extractor, "json decode", err)
	}
	return decoded, nil
}

// State returns the shared reference stored under T in AppState; it fails
// with wsforgeerr.Extractor if absent.
func State[T any](_ context.Context, req *Request) (T, error) {
	var zero T
	v, ok := ambient.GetState[T](req.AppState)
	if !ok {
		return zero, wsforgeerr.New(wsforgeerr.Extractor, "app state value not found")
	}
	return v, nil
}

// Ext returns an Extractor reading the Extensions value stored at key,
// type-asserted to T. It fails with wsforgeerr.Extractor if absent or of
// the wrong type.
func Ext[T any](key string) Extractor[T] {
	return func(_ context.Context, req *Request) (T, error) {
		var zero T
		v, ok := ambient.GetExtension[T](req.Extensions, key)
		if !ok {
			return zero, wsforgeerr.New(wsforgeerr.Extractor, "extension "+key+" not found")
		}
		return v, nil
	}
}

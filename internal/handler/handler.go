// Package handler erases typed handler functions into a single uniform
// callable, the way the teacher erases interface boundaries (see
// internal/router/router.go's convertConnectionsToClients comment:
// "Interface abstraction requires type conversion for clean boundaries").
// A small family of generic adapter constructors, one per extractor
// arity, plays the role of the source's blanket trait impl over
// extractor tuples.
package handler

import (
	"context"

	"wsforge/internal/extract"
	"wsforge/pkg/message"
)

// Func is the erased handler: consume a Request, yield an optional
// outbound Message or an error. This is what the Router actually stores
// and invokes.
type Func func(ctx context.Context, req *extract.Request) (*message.Message, error)

// From0 adapts a zero-argument handler plus a Responder for its return
// type into a Func.
func From0[R any](fn func(ctx context.Context) (R, error), respond func(R) (*message.Message, error)) Func {
	return func(ctx context.Context, _ *extract.Request) (*message.Message, error) {
		r, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return respond(r)
	}
}

// From1 adapts a one-argument handler.
func From1[A, R any](
	ea extract.Extractor[A],
	fn func(ctx context.Context, a A) (R, error),
	respond func(R) (*message.Message, error),
) Func {
	return func(ctx context.Context, req *extract.Request) (*message.Message, error) {
		a, err := ea(ctx, req)
		if err != nil {
			return nil, err
		}
		r, err := fn(ctx, a)
		if err != nil {
			return nil, err
		}
		return respond(r)
	}
}

// From2 adapts a two-argument handler. Argument order has no extraction
// semantics — each extractor reads independently from the shared
// Request — so this is not a "cursor" over the message, just a
// convenience for common arities.
func From2[A, B, R any](
	ea extract.Extractor[A], eb extract.Extractor[B],
	fn func(ctx context.Context, a A, b B) (R, error),
	respond func(R) (*message.Message, error),
) Func {
	return func(ctx context.Context, req *extract.Request) (*message.Message, error) {
		a, err := ea(ctx, req)
		if err != nil {
			return nil, err
		}
		b, err := eb(ctx, req)
		if err != nil {
			return nil, err
		}
		r, err := fn(ctx, a, b)
		if err != nil {
			return nil, err
		}
		return respond(r)
	}
}

// From3 adapts a three-argument handler.
func From3[A, B, C, R any](
	ea extract.Extractor[A], eb extract.Extractor[B], ec extract.Extractor[C],
	fn func(ctx context.Context, a A, b B, c C) (R, error),
	respond func(R) (*message.Message, error),
) Func {
	return func(ctx context.Context, req *extract.Request) (*message.Message, error) {
		a, err := ea(ctx, req)
		if err != nil {
			return nil, err
		}
		b, err := eb(ctx, req)
		if err != nil {
			return nil, err
		}
		c, err := ec(ctx, req)
		if err != nil {
			return nil, err
		}
		r, err := fn(ctx, a, b, c)
		if err != nil {
			return nil, err
		}
		return respond(r)
	}
}

// From4 adapts a four-argument handler.
func From4[A, B, C, D, R any](
	ea extract.Extractor[A], eb extract.Extractor[B], ec extract.Extractor[C], ed extract.Extractor[D],
	fn func(ctx context.Context, a A, b B, c C, d D) (R, error),
	respond func(R) (*message.Message, error),
) Func {
	return func(ctx context.Context, req *extract.Request) (*message.Message, error) {
		a, err := ea(ctx, req)
		if err != nil {
			return nil, err
		}
		b, err := eb(ctx, req)
		if err != nil {
			return nil, err
		}
		c, err := ec(ctx, req)
		if err != nil {
			return nil, err
		}
		d, err := ed(ctx, req)
		if err != nil {
			return nil, err
		}
		r, err := fn(ctx, a, b, c, d)
		if err != nil {
			return nil, err
		}
		return respond(r)
	}
}

// From5 adapts a five-argument handler, built on Tuple5 rather than five
// independent extraction steps, the way arities beyond 4 lean on the
// tuple combinators instead of re-deriving the same short-circuit chain.
func From5[A, B, C, D, E, R any](
	ea extract.Extractor[A], eb extract.Extractor[B], ec extract.Extractor[C], ed extract.Extractor[D], ee extract.Extractor[E],
	fn func(ctx context.Context, a A, b B, c C, d D, e E) (R, error),
	respond func(R) (*message.Message, error),
) Func {
	tuple := extract.Tuple5(ea, eb, ec, ed, ee)
	return func(ctx context.Context, req *extract.Request) (*message.Message, error) {
		q, err := tuple(ctx, req)
		if err != nil {
			return nil, err
		}
		r, err := fn(ctx, q.A, q.B, q.C, q.D, q.E)
		if err != nil {
			return nil, err
		}
		return respond(r)
	}
}

// From6 adapts a six-argument handler.
func From6[A, B, C, D, E, F, R any](
	ea extract.Extractor[A], eb extract.Extractor[B], ec extract.Extractor[C], ed extract.Extractor[D], ee extract.Extractor[E], ef extract.Extractor[F],
	fn func(ctx context.Context, a A, b B, c C, d D, e E, f F) (R, error),
	respond func(R) (*message.Message, error),
) Func {
	tuple := extract.Tuple6(ea, eb, ec, ed, ee, ef)
	return func(ctx context.Context, req *extract.Request) (*message.Message, error) {
		q, err := tuple(ctx, req)
		if err != nil {
			return nil, err
		}
		r, err := fn(ctx, q.A, q.B, q.C, q.D, q.E, q.F)
		if err != nil {
			return nil, err
		}
		return respond(r)
	}
}

// From7 adapts a seven-argument handler.
func From7[A, B, C, D, E, F, G, R any](
	ea extract.Extractor[A], eb extract.Extractor[B], ec extract.Extractor[C], ed extract.Extractor[D], ee extract.Extractor[E], ef extract.Extractor[F], eg extract.Extractor[G],
	fn func(ctx context.Context, a A, b B, c C, d D, e E, f F, g G) (R, error),
	respond func(R) (*message.Message, error),
) Func {
	tuple := extract.Tuple7(ea, eb, ec, ed, ee, ef, eg)
	return func(ctx context.Context, req *extract.Request) (*message.Message, error) {
		q, err := tuple(ctx, req)
		if err != nil {
			return nil, err
		}
		r, err := fn(ctx, q.A, q.B, q.C, q.D, q.E, q.F, q.G)
		if err != nil {
			return nil, err
		}
		return respond(r)
	}
}

// From8 adapts an eight-argument handler, the widest arity spec.md §4.7
// requires extractor tuples to support.
func From8[A, B, C, D, E, F, G, H, R any](
	ea extract.Extractor[A], eb extract.Extractor[B], ec extract.Extractor[C], ed extract.Extractor[D],
	ee extract.Extractor[E], ef extract.Extractor[F], eg extract.Extractor[G], eh extract.Extractor[H],
	fn func(ctx context.Context, a A, b B, c C, d D, e E, f F, g G, h H) (R, error),
	respond func(R) (*message.Message, error),
) Func {
	tuple := extract.Tuple8(ea, eb, ec, ed, ee, ef, eg, eh)
	return func(ctx context.Context, req *extract.Request) (*message.Message, error) {
		q, err := tuple(ctx, req)
		if err != nil {
			return nil, err
		}
		r, err := fn(ctx, q.A.A, q.A.B, q.A.C, q.A.D, q.B.A, q.B.B, q.B.C, q.B.D)
		if err != nil {
			return nil, err
		}
		return respond(r)
	}
}

package extract

import "context"

// Tuple2..Tuple8 compose up to 8 extractors into a single extractor
// producing a struct of their results, running left-to-right and
// short-circuiting on the first failure. Go lacks the source's variadic
// extractor-tuple trait impl, so arity is enumerated explicitly — the
// same family-of-generic-adapters shape spec.md §9 calls out as the
// idiomatic substitute.

type Pair[A, B any] struct {
	A A
	B B
}

func Tuple2[A, B any](ea Extractor[A], eb Extractor[B]) Extractor[Pair[A, B]] {
	return func(ctx context.Context, req *Request) (Pair[A, B], error) {
		a, err := ea(ctx, req)
		if err != nil {
			return Pair[A, B]{}, err
		}
		b, err := eb(ctx, req)
		if err != nil {
			return Pair[A, B]{}, err
		}
		return Pair[A, B]{A: a, B: b}, nil
	}
}

type Triple[A, B, C any] struct {
	A A
	B B
	C C
}

func Tuple3[A, B, C any](ea Extractor[A], eb Extractor[B], ec Extractor[C]) Extractor[Triple[A, B, C]] {
	return func(ctx context.Context, req *Request) (Triple[A, B, C], error) {
		a, err := ea(ctx, req)
		if err != nil {
			return Triple[A, B, C]{}, err
		}
		b, err := eb(ctx, req)
		if err != nil {
			return Triple[A, B, C]{}, err
		}
		c, err := ec(ctx, req)
		if err != nil {
			return Triple[A, B, C]{}, err
		}
		return Triple[A, B, C]{A: a, B: b, C: c}, nil
	}
}

type Quad[A, B, C, D any] struct {
	A A
	B B
	C C
	D D
}

func Tuple4[A, B, C, D any](ea Extractor[A], eb Extractor[B], ec Extractor[C], ed Extractor[D]) Extractor[Quad[A, B, C, D]] {
	return func(ctx context.Context, req *Request) (Quad[A, B, C, D], error) {
		a, err := ea(ctx, req)
		if err != nil {
			return Quad[A, B, C, D]{}, err
		}
		b, err := eb(ctx, req)
		if err != nil {
			return Quad[A, B, C, D]{}, err
		}
		c, err := ec(ctx, req)
		if err != nil {
			return Quad[A, B, C, D]{}, err
		}
		d, err := ed(ctx, req)
		if err != nil {
			return Quad[A, B, C, D]{}, err
		}
		return Quad[A, B, C, D]{A: a, B: b, C: c, D: d}, nil
	}
}

type Quint[A, B, C, D, E any] struct {
	A A
	B B
	C C
	D D
	E E
}

func Tuple5[A, B, C, D, E any](
	ea Extractor[A], eb Extractor[B], ec Extractor[C], ed Extractor[D], ee Extractor[E],
) Extractor[Quint[A, B, C, D, E]] {
	return func(ctx context.Context, req *Request) (Quint[A, B, C, D, E], error) {
		q, err := Tuple4(ea, eb, ec, ed)(ctx, req)
		if err != nil {
			return Quint[A, B, C, D, E]{}, err
		}
		e, err := ee(ctx, req)
		if err != nil {
			return Quint[A, B, C, D, E]{}, err
		}
		return Quint[A, B, C, D, E]{A: q.A, B: q.B, C: q.C, D: q.D, E: e}, nil
	}
}

type Sextet[A, B, C, D, E, F any] struct {
	A A
	B B
	C C
	D D
	E E
	F F
}

func Tuple6[A, B, C, D, E, F any](
	ea Extractor[A], eb Extractor[B], ec Extractor[C], ed Extractor[D], ee Extractor[E], ef Extractor[F],
) Extractor[Sextet[A, B, C, D, E, F]] {
	return func(ctx context.Context, req *Request) (Sextet[A, B, C, D, E, F], error) {
		q, err := Tuple5(ea, eb, ec, ed, ee)(ctx, req)
		if err != nil {
			return Sextet[A, B, C, D, E, F]{}, err
		}
		f, err := ef(ctx, req)
		if err != nil {
			return Sextet[A, B, C, D, E, F]{}, err
		}
		return Sextet[A, B, C, D, E, F]{A: q.A, B: q.B, C: q.C, D: q.D, E: q.E, F: f}, nil
	}
}

type Septet[A, B, C, D, E, F, G any] struct {
	A A
	B B
	C C
	D D
	E E
	F F
	G G
}

func Tuple7[A, B, C, D, E, F, G any](
	ea Extractor[A], eb Extractor[B], ec Extractor[C], ed Extractor[D], ee Extractor[E], ef Extractor[F], eg Extractor[G],
) Extractor[Septet[A, B, C, D, E, F, G]] {
	return func(ctx context.Context, req *Request) (Septet[A, B, C, D, E, F, G], error) {
		q, err := Tuple6(ea, eb, ec, ed, ee, ef)(ctx, req)
		if err != nil {
			return Septet[A, B, C, D, E, F, G]{}, err
		}
		g, err := eg(ctx, req)
		if err != nil {
			return Septet[A, B, C, D, E, F, G]{}, err
		}
		return Septet[A, B, C, D, E, F, G]{A: q.A, B: q.B, C: q.C, D: q.D, E: q.E, F: q.F, G: g}, nil
	}
}

// Tuple8 is composed out of two Tuple4 calls to avoid unbounded
// boilerplate at the widest arity the message extractor composition
// needs to support.

func Tuple8[A, B, C, D, E, F, G, H any](
	ea Extractor[A], eb Extractor[B], ec Extractor[C], ed Extractor[D],
	ee Extractor[E], ef Extractor[F], eg Extractor[G], eh Extractor[H],
) Extractor[Pair[Quad[A, B, C, D], Quad[E, F, G, H]]] {
	return Tuple2(Tuple4(ea, eb, ec, ed), Tuple4(ee, ef, eg, eh))
}

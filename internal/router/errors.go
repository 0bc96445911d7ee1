package router

import "errors"

// Router-level sentinel errors, following the teacher's plain errors.New
// style (internal/router/errors.go).
var (
	ErrAmbiguousRoute = errors.New("router: prefix is shadowed by an earlier, more general route")
	ErrRateLimited    = errors.New("router: rate limit exceeded")
)

// Package router implements the literal-prefix dispatch table described in
// spec.md §4.6, grounded on internal/router/router.go's dependency-
// injected, registry-owning design — but with the domain-specific message
// routing replaced by the framework's generic extractor/handler pipeline.
package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wsforge/internal/ambient"
	"wsforge/internal/extract"
	"wsforge/internal/handler"
	"wsforge/internal/logging"
	"wsforge/internal/ratelimit"
	"wsforge/internal/registry"
	"wsforge/pkg/message"
)

// HistoryStore is the optional persistence seam described in SPEC_FULL.md
// [MODULE] history. A nil store (the default) disables both history
// replay on connect and message persistence — the framework core stays
// storage-agnostic unless a caller opts in.
type HistoryStore interface {
	StoreMessage(ctx context.Context, sessionID string, m message.Message) error
	SessionHistory(ctx context.Context, sessionID string) ([]message.Message, error)
}

// ConnectCallback is invoked synchronously after a session becomes visible
// in the registry and before its read task begins processing frames.
type ConnectCallback func(reg *registry.Registry, id string)

// DisconnectCallback is invoked synchronously after a session has been
// removed from the registry. The acceptor triggers it from whichever of
// the session's read or write tasks exits first; the other task may still
// be finishing when the callback runs.
type DisconnectCallback func(reg *registry.Registry, id string)

type route struct {
	prefix  string
	handler handler.Func
}

// Router owns app state, a literal-prefix handler table, a default
// handler, lifecycle callbacks, and the session registry.
type Router struct {
	appState   *ambient.AppState
	registry   *registry.Registry
	routes     []route
	defaultFn  handler.Func
	onConnect  ConnectCallback
	onDisconnect DisconnectCallback
	history    HistoryStore
	limiter    *ratelimit.Limiter
	log        *logging.Logger
}

// New constructs a Router with its own registry, inserted into app state
// under its own type so handlers can extract it (spec.md §3).
func New() *Router {
	appState := ambient.NewAppState()
	reg := registry.New()
	ambient.PutState(appState, reg)
	return &Router{
		appState: appState,
		registry: reg,
		log:      logging.Default(),
	}
}

// AppState exposes the router's shared application state for registering
// additional values before Use/Default calls.
func (r *Router) AppState() *ambient.AppState { return r.appState }

// Registry exposes the router's session registry.
func (r *Router) Registry() *registry.Registry { return r.registry }

// Use registers handler fn for messages whose text content begins with
// prefix. Route order matters: more specific prefixes must be registered
// before less specific ones (spec.md §4.6). Registering a prefix that
// would be permanently shadowed by an earlier, more general prefix is a
// programming error and panics immediately, per SPEC_FULL.md's redesign
// flag — this never changes match semantics, it only catches a mistake
// at build time instead of silently misrouting at runtime.
func (r *Router) Use(prefix string, fn handler.Func) {
	for _, existing := range r.routes {
		if strings.HasPrefix(prefix, existing.prefix) {
			panic(fmt.Errorf("%w: %q is shadowed by earlier route %q", ErrAmbiguousRoute, prefix, existing.prefix))
		}
	}
	r.routes = append(r.routes, route{prefix: prefix, handler: fn})
}

// Default registers the fallback handler used when no prefix matches, or
// the message is not Text.
func (r *Router) Default(fn handler.Func) {
	r.defaultFn = fn
}

// OnConnect registers the synchronous connect callback.
func (r *Router) OnConnect(cb ConnectCallback) { r.onConnect = cb }

// OnDisconnect registers the synchronous disconnect callback.
func (r *Router) OnDisconnect(cb DisconnectCallback) { r.onDisconnect = cb }

// WithHistory attaches a HistoryStore; once set, every successfully routed
// message is persisted, grounded on the teacher's persist-then-route
// pattern (internal/router/router.go's RouteMessage).
func (r *Router) WithHistory(store HistoryStore) { r.history = store }

// WithRateLimit attaches a per-session fixed-window limiter allowing at
// most limit messages per period.
func (r *Router) WithRateLimit(limit int, period time.Duration) {
	r.limiter = ratelimit.New(limit, period)
}

// HandleConnect runs the registration + on_connect sequence described in
// spec.md §4.2. The caller (the acceptor) is responsible for spawning the
// read/write tasks after this returns.
func (r *Router) HandleConnect(info registry.ConnectionInfo) registry.Connection {
	conn := r.registry.NewConnection(info)
	r.registry.Add(conn)
	if r.onConnect != nil {
		r.onConnect(r.registry, conn.ID())
	}
	return conn
}

// HandleDisconnect runs the removal + on_disconnect sequence described in
// spec.md §4.5. on_disconnect fires exactly once, after removal.
func (r *Router) HandleDisconnect(id string) {
	if _, ok := r.registry.Remove(id); ok {
		if r.limiter != nil {
			r.limiter.Forget(id)
		}
		if r.onDisconnect != nil {
			r.onDisconnect(r.registry, id)
		}
	}
}

// ReplayHistory sends a connection its session's stored history, if a
// HistoryStore is configured. Errors are logged, not surfaced to the
// caller — history replay is best-effort by design.
func (r *Router) ReplayHistory(ctx context.Context, sessionID string, conn registry.Connection) {
	if r.history == nil {
		return
	}
	msgs, err := r.history.SessionHistory(ctx, sessionID)
	if err != nil {
		r.log.Error("failed to load session history for %s: %v", sessionID, err)
		return
	}
	for _, m := range msgs {
		_ = conn.Send(m)
	}
}

// Dispatch classifies an inbound message, selects a handler, runs it with
// a fresh Extensions unless one is supplied, and enqueues the resulting
// message on conn's outbound handle. It implements spec.md §4.6/§4.3.
func (r *Router) Dispatch(ctx context.Context, sessionID string, m message.Message, conn registry.Connection, ext *ambient.Extensions) {
	if r.limiter != nil && !r.limiter.Allow(sessionID) {
		r.emitError(conn, ErrRateLimited)
		return
	}

	if ext == nil {
		ext = ambient.NewExtensions()
	}

	h := r.selectHandler(m)
	if h == nil {
		return // no default handler configured: dispatch is a no-op
	}

	req := &extract.Request{Message: m, Conn: conn, AppState: r.appState, Extensions: ext}
	out, err := h(ctx, req)
	if err != nil {
		r.emitError(conn, err)
		return
	}
	if out == nil {
		return
	}
	if r.history != nil {
		if err := r.history.StoreMessage(ctx, sessionID, *out); err != nil {
			r.log.Error("failed to persist outbound message for session %s: %v", sessionID, err)
		}
	}
	if err := conn.Send(*out); err != nil {
		r.log.Error("failed to enqueue response for %s: %v", conn.ID(), err)
	}
}

// Stats summarizes the router's current registry size and route table,
// grounded on the teacher's Registry.GetStats (internal/websocket/registry.go).
type Stats struct {
	Connections int `json:"connections"`
	Routes      int `json:"routes"`
}

// Stats returns a point-in-time snapshot for health/metrics reporting.
func (r *Router) Stats() Stats {
	return Stats{Connections: r.registry.Count(), Routes: len(r.routes)}
}

func (r *Router) selectHandler(m message.Message) handler.Func {
	if text, ok := m.AsText(); ok {
		for _, rt := range r.routes {
			if strings.HasPrefix(text, rt.prefix) {
				return rt.handler
			}
		}
	}
	return r.defaultFn
}

// emitError converts a dispatch failure into a single "Error: <message>"
// text frame on the originating connection, per spec.md §4.3/§6.
func (r *Router) emitError(conn registry.Connection, err error) {
	r.log.Error("dispatch error on %s: %v", conn.ID(), err)
	m, textErr := message.Text("Error: " + err.Error())
	if textErr != nil {
		// err.Error() produced invalid UTF-8, which should not happen for
		// Go errors; fall back to a fixed-ASCII message rather than drop it.
		m = message.MustText("Error: dispatch failed")
	}
	_ = conn.Send(m)
}

// Package registry implements the per-session Connection handle and the
// concurrent session table, adapted from the teacher's
// internal/websocket/connection.go and internal/websocket/registry.go:
// single-writer goroutine per connection, RWMutex-guarded maps sized for
// read-heavy lookup and broadcast.
package registry

import (
	"sync"
	"time"

	"wsforge/pkg/wsforgeerr"
)

// ConnectionInfo is the immutable record captured at upgrade time.
type ConnectionInfo struct {
	RemoteAddr string
	ConnectedAt time.Time
	Metadata    map[string]string
}

// inner is the reference-counted core of a Connection: the outbound
// channel and its close bookkeeping. All Connection clones share the same
// *inner, so they refer to the same session and the same send handle.
type inner struct {
	id      string
	info    ConnectionInfo
	sendCh  chan any // carries message.Message values
	closeOnce sync.Once
	closed  chan struct{}
}

// Connection is a cheaply-clonable handle to one client session. Clones
// share the same outbound handle; identity is the session id.
type Connection struct {
	in *inner
}

func newConnection(id string, info ConnectionInfo, bufSize int) Connection {
	return Connection{in: &inner{
		id:     id,
		info:   info,
		sendCh: make(chan any, bufSize),
		closed: make(chan struct{}),
	}}
}

// ID returns the session id assigned at registration.
func (c Connection) ID() string { return c.in.id }

// Info returns the connection's immutable ConnectionInfo.
func (c Connection) Info() ConnectionInfo { return c.in.info }

// Send enqueues a value (normally a message.Message) on the outbound
// channel. The channel is buffered (defaultOutboundBuffer entries), not
// unbounded: when it is full, Send blocks until the write task drains an
// entry or the connection is closed. It returns
// wsforgeerr.SessionNotFound if the connection's receiving end has
// already been closed — this is how a
// closed write task is observed by callers, per the spec's "enqueues
// begin to fail" invariant.
func (c Connection) Send(v any) error {
	select {
	case <-c.in.closed:
		return wsforgeerr.New(wsforgeerr.SessionNotFound, "connection closed")
	default:
	}
	select {
	case c.in.sendCh <- v:
		return nil
	case <-c.in.closed:
		return wsforgeerr.New(wsforgeerr.SessionNotFound, "connection closed")
	}
}

// Outbound returns the receiving end of the outbound channel. Only the
// write task for this session should read from it.
func (c Connection) Outbound() <-chan any { return c.in.sendCh }

// close marks the connection closed so further Send calls fail. It is
// idempotent; it does not close sendCh itself (the write task drains and
// exits on its own once it observes closed, avoiding a send-on-closed-
// channel race between concurrent producers and this call).
func (c Connection) close() {
	c.in.closeOnce.Do(func() { close(c.in.closed) })
}

// Closed reports whether this connection has been closed.
func (c Connection) Closed() <-chan struct{} { return c.in.closed }

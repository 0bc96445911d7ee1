// Package acceptor implements spec.md §4.1–§4.5: a hybrid acceptor that
// multiplexes WebSocket upgrades and static-file responses on one
// listening socket, and owns the per-session read/write task pair.
//
// Grounded on internal/websocket/handler.go's HandleWebSocket +
// handleConnection, generalized from the teacher's query-param
// authentication into the framework's extension-point on_connect
// callback, and with the classroom-specific heartbeat tuning replaced by
// configurable values.
package acceptor

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"wsforge/internal/ambient"
	"wsforge/internal/logging"
	"wsforge/internal/metrics"
	"wsforge/internal/registry"
	"wsforge/internal/router"
	"wsforge/internal/staticfs"
	"wsforge/pkg/message"
)

// Config tunes the acceptor's WebSocket handshake and heartbeat behavior.
type Config struct {
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	PingInterval     time.Duration
	WriteTimeout     time.Duration
	CheckOrigin      func(r *http.Request) bool
}

// DefaultConfig mirrors the teacher's production-ready upgrader settings
// (internal/websocket/handler.go): 10s handshake, 60s read deadline with a
// 30s ping interval, 5s write deadline.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		ReadTimeout:      60 * time.Second,
		PingInterval:     30 * time.Second,
		WriteTimeout:     5 * time.Second,
		CheckOrigin:      func(r *http.Request) bool { return true },
	}
}

// Acceptor binds one address and serves both WebSocket upgrades and,
// optionally, static files, spawning per-session tasks for each upgrade.
type Acceptor struct {
	addr       string
	cfg        Config
	router     *router.Router
	static     *staticfs.Server
	metrics    *metrics.Handler
	upgrader   websocket.Upgrader
	httpServer *http.Server
	log        *logging.Logger
}

// New constructs an Acceptor. static may be nil, in which case
// non-upgrade requests receive 404. /health and /metrics are always
// served, per SPEC_FULL.md's metrics module.
func New(addr string, r *router.Router, static *staticfs.Server, cfg Config) *Acceptor {
	a := &Acceptor{
		addr:    addr,
		cfg:     cfg,
		router:  r,
		static:  static,
		metrics: metrics.NewHandler(r),
		log:     logging.Default(),
	}
	a.upgrader = websocket.Upgrader{
		CheckOrigin:      cfg.CheckOrigin,
		HandshakeTimeout: cfg.HandshakeTimeout,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", a.serveHTTP)
	a.httpServer = &http.Server{Addr: addr, Handler: mux}
	return a
}

// isUpgradeRequest implements spec.md §4.1's detection rule: Upgrade:
// websocket (case-insensitive) and Connection containing Upgrade.
func isUpgradeRequest(r *http.Request) bool {
	upgrade := strings.ToLower(r.Header.Get("Upgrade"))
	conn := strings.ToLower(r.Header.Get("Connection"))
	return upgrade == "websocket" && strings.Contains(conn, "upgrade")
}

func (a *Acceptor) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if isUpgradeRequest(r) {
		a.handleUpgrade(w, r)
		return
	}
	switch r.URL.Path {
	case "/health":
		a.metrics.ServeHealth(w, r)
		return
	case "/metrics":
		a.metrics.ServeMetrics(w, r)
		return
	}
	if a.static != nil {
		// static.ServeHTTP/Resolve owns the method check (spec.md §6: a
		// non-GET request gets 405, not 404) — this must not pre-empt it.
		a.static.ServeHTTP(w, r)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

func (a *Acceptor) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Error("websocket upgrade failed: %v", err)
		return
	}

	info := registry.ConnectionInfo{
		RemoteAddr:  r.RemoteAddr,
		ConnectedAt: time.Now(),
		Metadata:    map[string]string{},
	}

	// spec.md §4.2: mint id, insert, fire on_connect — session is already
	// present in the registry by the time on_connect runs.
	sessConn := a.router.HandleConnect(info)

	ctx, cancel := context.WithCancel(context.Background())

	go a.writeLoop(ctx, cancel, conn, sessConn)

	// SPEC_FULL.md [MODULE] history: replay stored history once the write
	// loop is running and able to drain the outbound channel, before the
	// read loop starts accepting new frames from the peer.
	a.router.ReplayHistory(ctx, sessConn.ID(), sessConn)

	go a.readLoop(ctx, cancel, conn, sessConn)
}

// writeLoop owns the receiving end of the outbound channel and drains it
// in FIFO order, per spec.md §4.4.
func (a *Acceptor) writeLoop(ctx context.Context, cancel context.CancelFunc, wsConn *websocket.Conn, sessConn registry.Connection) {
	defer a.finishSession(cancel, wsConn, sessConn)

	ticker := time.NewTicker(a.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case v, ok := <-sessConn.Outbound():
			if !ok {
				return
			}
			if err := a.writeOne(wsConn, v); err != nil {
				return
			}
		case <-ticker.C:
			if err := wsConn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(a.cfg.WriteTimeout)); err != nil {
				return
			}
		case <-sessConn.Closed():
			return
		case <-ctx.Done():
			return
		}
	}
}

func (a *Acceptor) writeOne(wsConn *websocket.Conn, v any) error {
	m, ok := v.(message.Message)
	if !ok {
		a.log.Warn("dropping non-message value enqueued on outbound channel")
		return nil
	}
	if err := wsConn.SetWriteDeadline(time.Now().Add(a.cfg.WriteTimeout)); err != nil {
		return err
	}
	switch m.Kind() {
	case message.KindText:
		return wsConn.WriteMessage(websocket.TextMessage, m.AsBytes())
	case message.KindBinary:
		return wsConn.WriteMessage(websocket.BinaryMessage, m.AsBytes())
	case message.KindPing:
		return wsConn.WriteMessage(websocket.PingMessage, m.AsBytes())
	case message.KindPong:
		return wsConn.WriteMessage(websocket.PongMessage, m.AsBytes())
	case message.KindClose:
		return wsConn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(m.CloseCode, m.CloseReason))
	default:
		return nil
	}
}

// readLoop reads frames one at a time, dispatching each to the Router per
// spec.md §4.3. Ping frames never reach here — gorilla's default ping
// handler answers with a pong automatically, matching the "permitted to
// be handled by the underlying library" allowance.
func (a *Acceptor) readLoop(ctx context.Context, cancel context.CancelFunc, wsConn *websocket.Conn, sessConn registry.Connection) {
	defer a.finishSession(cancel, wsConn, sessConn)

	_ = wsConn.SetReadDeadline(time.Now().Add(a.cfg.ReadTimeout))
	wsConn.SetPongHandler(func(string) error {
		return wsConn.SetReadDeadline(time.Now().Add(a.cfg.ReadTimeout))
	})

	for {
		messageType, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				a.log.Warn("websocket read error on %s: %v", sessConn.ID(), err)
			}
			return
		}

		var m message.Message
		switch messageType {
		case websocket.TextMessage:
			text, convErr := message.Text(string(data))
			if convErr != nil {
				a.log.Warn("dropping non-UTF-8 text frame on %s", sessConn.ID())
				continue
			}
			m = text
		case websocket.BinaryMessage:
			m = message.Binary(data)
		default:
			continue
		}

		ext := ambient.NewExtensions()
		a.router.Dispatch(ctx, sessConn.ID(), m, sessConn, ext)
	}
}

// finishSession implements spec.md §4.5: either task ending triggers
// best-effort termination of the peer, and the session is removed from
// the registry exactly once regardless of which side noticed first.
func (a *Acceptor) finishSession(cancel context.CancelFunc, wsConn *websocket.Conn, sessConn registry.Connection) {
	cancel()
	_ = wsConn.Close()
	a.router.HandleDisconnect(sessConn.ID())
}

// ListenAndServe blocks serving HTTP/WebSocket traffic until the context
// is cancelled or the server fails. It never blocks accepting new sockets
// on per-connection work — each upgrade spawns its own goroutines.
func (a *Acceptor) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully stops accepting new connections.
func (a *Acceptor) Shutdown(ctx context.Context) error {
	return a.httpServer.Shutdown(ctx)
}

package acceptor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"wsforge/internal/extract"
	"wsforge/internal/handler"
	"wsforge/internal/respond"
	"wsforge/internal/router"
	"wsforge/internal/staticfs"
	"wsforge/pkg/message"
)

// fakeHistory is a minimal router.HistoryStore for exercising replay
// end-to-end through the real upgrade path.
type fakeHistory struct {
	replays []message.Message
}

func (f *fakeHistory) StoreMessage(ctx context.Context, sessionID string, m message.Message) error {
	return nil
}

func (f *fakeHistory) SessionHistory(ctx context.Context, sessionID string) ([]message.Message, error) {
	return f.replays, nil
}

func TestIsUpgradeRequestDetectsWebSocketHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Connection", "Upgrade")

	if !isUpgradeRequest(req) {
		t.Fatal("expected isUpgradeRequest to detect a standard upgrade request")
	}
}

func TestIsUpgradeRequestIsCaseInsensitive(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Upgrade", "WebSocket")
	req.Header.Set("Connection", "keep-alive, Upgrade")

	if !isUpgradeRequest(req) {
		t.Fatal("expected isUpgradeRequest to match case-insensitively")
	}
}

func TestIsUpgradeRequestRejectsPlainRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if isUpgradeRequest(req) {
		t.Fatal("expected a plain GET with no upgrade headers to not be detected as an upgrade")
	}
}

func echoRouter() *router.Router {
	r := router.New()
	r.Default(handler.From1(extract.MessageExtractor,
		func(ctx context.Context, m message.Message) (message.Message, error) { return m, nil },
		respond.MessageResponder,
	))
	return r
}

func TestAcceptorUpgradesAndEchoesOverRealDial(t *testing.T) {
	r := echoRouter()
	a := New("", r, nil, DefaultConfig())
	ts := httptest.NewServer(http.HandlerFunc(a.serveHTTP))
	defer ts.Close()

	wsURL := "ws" + ts.URL[len("http"):] + "/"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("ping-text")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	msgType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if msgType != websocket.TextMessage {
		t.Fatalf("got message type %d, want TextMessage", msgType)
	}
	if string(data) != "ping-text" {
		t.Fatalf("got %q, want ping-text", data)
	}

	if r.Registry().Count() != 1 {
		t.Fatalf("expected exactly one registered connection during the session, got %d", r.Registry().Count())
	}
}

func TestAcceptorReturnsNotFoundWhenNoStaticConfigured(t *testing.T) {
	r := router.New()
	a := New("", r, nil, DefaultConfig())
	ts := httptest.NewServer(http.HandlerFunc(a.serveHTTP))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/anything")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when no static server is configured", resp.StatusCode)
	}
}

func TestAcceptorReplaysHistoryOnConnect(t *testing.T) {
	r := router.New()
	store := &fakeHistory{replays: []message.Message{message.MustText("old-1"), message.MustText("old-2")}}
	r.WithHistory(store)
	a := New("", r, nil, DefaultConfig())
	ts := httptest.NewServer(http.HandlerFunc(a.serveHTTP))
	defer ts.Close()

	wsURL := "ws" + ts.URL[len("http"):] + "/"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for _, want := range []string{"old-1", "old-2"} {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage: %v", err)
		}
		if string(data) != want {
			t.Fatalf("got %q, want replayed message %q", data, want)
		}
	}
}

func TestAcceptorServesHealthAndMetrics(t *testing.T) {
	r := router.New()
	a := New("", r, nil, DefaultConfig())
	ts := httptest.NewServer(http.HandlerFunc(a.serveHTTP))
	defer ts.Close()

	healthResp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("Get /health: %v", err)
	}
	defer healthResp.Body.Close()
	if healthResp.StatusCode != http.StatusOK {
		t.Fatalf("/health status = %d, want 200", healthResp.StatusCode)
	}
	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(healthResp.Body).Decode(&health); err != nil {
		t.Fatalf("decoding /health: %v", err)
	}
	if health.Status != "healthy" {
		t.Fatalf("health.Status = %q, want healthy", health.Status)
	}

	metricsResp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("Get /metrics: %v", err)
	}
	defer metricsResp.Body.Close()
	if metricsResp.StatusCode != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", metricsResp.StatusCode)
	}
	var stats struct {
		Stats struct {
			Connections int `json:"connections"`
			Routes      int `json:"routes"`
		} `json:"stats"`
	}
	if err := json.NewDecoder(metricsResp.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding /metrics: %v", err)
	}
	if stats.Stats.Connections != 0 {
		t.Fatalf("stats.Connections = %d, want 0 with no active connections", stats.Stats.Connections)
	}
}

func TestAcceptorReturnsMethodNotAllowedForNonGetStaticRequest(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	static, err := staticfs.New(root, "")
	if err != nil {
		t.Fatalf("staticfs.New: %v", err)
	}

	r := router.New()
	a := New("", r, static, DefaultConfig())
	ts := httptest.NewServer(http.HandlerFunc(a.serveHTTP))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/index.html", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405 for a non-GET request to a configured static server", resp.StatusCode)
	}
}

// Package sqlitehistory is the optional, pluggable HistoryStore backing
// router.Router.WithHistory, built directly on database/sql and
// mattn/go-sqlite3 using the teacher's pragma set and single-writer
// goroutine pattern (internal/database/manager.go), adapted from
// session/message persistence to generic per-session frame history.
package sqlitehistory

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"wsforge/pkg/message"
)

type writeOp struct {
	run    func(*sql.DB) error
	result chan error
}

// Store persists routed messages to a SQLite database and replays them
// back in chronological order for session history.
type Store struct {
	db           *sql.DB
	writeCh      chan writeOp
	shutdown     chan struct{}
	wg           sync.WaitGroup
	mu           sync.RWMutex
	closed       bool
}

// Open creates (or reuses) a SQLite database at path with the teacher's
// WAL/NORMAL/busy-timeout optimizations and starts the single writer
// goroutine that serializes all writes against SQLite's single-writer
// constraint.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("sqlitehistory: opening database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlitehistory: applying %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS frames (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			kind INTEGER NOT NULL,
			payload BLOB NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_frames_session_time ON frames(session_id, created_at);
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitehistory: creating schema: %w", err)
	}

	s := &Store{
		db:       db,
		writeCh:  make(chan writeOp, 100),
		shutdown: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.writeLoop()
	return s, nil
}

func (s *Store) writeLoop() {
	defer s.wg.Done()
	for {
		select {
		case op := <-s.writeCh:
			op.result <- op.run(s.db)
		case <-s.shutdown:
			return
		}
	}
}

func (s *Store) executeWrite(run func(*sql.DB) error) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return fmt.Errorf("sqlitehistory: store is closed")
	}
	s.mu.RUnlock()

	result := make(chan error, 1)
	select {
	case s.writeCh <- writeOp{run: run, result: result}:
		return <-result
	case <-time.After(30 * time.Second):
		return fmt.Errorf("sqlitehistory: write timed out")
	}
}

// StoreMessage persists m under sessionID, stamping it with a fresh
// server-side id, matching the teacher's "server controls message ids to
// prevent client manipulation" discipline (internal/router/router.go).
func (s *Store) StoreMessage(ctx context.Context, sessionID string, m message.Message) error {
	id := uuid.New().String()
	kind := int(m.Kind())
	payload := m.AsBytes()
	now := time.Now()

	return s.executeWrite(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT INTO frames (id, session_id, kind, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
			id, sessionID, kind, payload, now,
		)
		return err
	})
}

// SessionHistory returns every stored frame for sessionID in chronological
// order.
func (s *Store) SessionHistory(ctx context.Context, sessionID string) ([]message.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, payload FROM frames WHERE session_id = ? ORDER BY created_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlitehistory: querying history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []message.Message
	for rows.Next() {
		var kind int
		var payload []byte
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, fmt.Errorf("sqlitehistory: scanning frame: %w", err)
		}
		m, err := reconstruct(message.Kind(kind), payload)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitehistory: iterating history: %w", err)
	}
	return out, nil
}

func reconstruct(kind message.Kind, payload []byte) (message.Message, error) {
	switch kind {
	case message.KindText:
		return message.Text(string(payload))
	case message.KindBinary:
		return message.Binary(payload), nil
	default:
		return message.Binary(payload), nil
	}
}

// Close stops the write loop and closes the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.shutdown)
	s.wg.Wait()
	return s.db.Close()
}

package registry

import (
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const shardCount = 16
const defaultOutboundBuffer = 100 // matches the teacher's 100-message write buffer

type shard struct {
	mu    sync.RWMutex
	conns map[string]Connection
}

// Registry is the concurrent session table: id -> Connection, plus fan-out
// primitives. It is sharded by id hash so broadcast and targeted lookups
// do not serialize on one mutex, generalizing the teacher's single
// sync.RWMutex (spec.md permits either; sharding is the "one step further"
// the spec explicitly allows).
type Registry struct {
	shards  [shardCount]*shard
	counter uint64
}

// New constructs an empty Registry.
func New() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i] = &shard{conns: make(map[string]Connection)}
	}
	return r
}

func (r *Registry) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return r.shards[h.Sum32()%shardCount]
}

// NewConnection mints a new session id of the form "conn_{n}" and
// constructs a Connection around it. It does not insert into the
// registry; callers add it with Add once the session is ready to be
// observed, per spec.md §4.2's ordered steps.
func (r *Registry) NewConnection(info ConnectionInfo) Connection {
	n := atomic.AddUint64(&r.counter, 1) - 1
	id := fmt.Sprintf("conn_%d", n)
	return newConnection(id, info, defaultOutboundBuffer)
}

// Add inserts conn, overwriting any prior entry with the same id, and
// returns the new total count.
func (r *Registry) Add(conn Connection) int {
	sh := r.shardFor(conn.ID())
	sh.mu.Lock()
	sh.conns[conn.ID()] = conn
	sh.mu.Unlock()
	return r.Count()
}

// Remove deletes id from the registry and returns the prior Connection, if
// any. Removal closes the connection's send gate so further Send calls
// fail — this is how the write task observes "closed".
func (r *Registry) Remove(id string) (Connection, bool) {
	sh := r.shardFor(id)
	sh.mu.Lock()
	conn, ok := sh.conns[id]
	if ok {
		delete(sh.conns, id)
	}
	sh.mu.Unlock()
	if ok {
		conn.close()
	}
	return conn, ok
}

// Get returns a clone of the Connection registered under id, if any.
func (r *Registry) Get(id string) (Connection, bool) {
	sh := r.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	conn, ok := sh.conns[id]
	return conn, ok
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	total := 0
	for _, sh := range r.shards {
		sh.mu.RLock()
		total += len(sh.conns)
		sh.mu.RUnlock()
	}
	return total
}

// AllIDs returns a snapshot of all registered ids. The snapshot is not
// atomic with respect to concurrent mutation.
func (r *Registry) AllIDs() []string {
	ids := make([]string, 0, r.Count())
	for _, sh := range r.shards {
		sh.mu.RLock()
		for id := range sh.conns {
			ids = append(ids, id)
		}
		sh.mu.RUnlock()
	}
	return ids
}

// Stats summarizes the registry's current size, grounded on the teacher's
// Registry.GetStats (internal/websocket/registry.go).
type Stats struct {
	Connections int `json:"connections"`
}

// Stats returns a point-in-time snapshot of registry size.
func (r *Registry) Stats() Stats {
	return Stats{Connections: r.Count()}
}

// AllConnections returns a snapshot of all registered connections.
func (r *Registry) AllConnections() []Connection {
	conns := make([]Connection, 0, r.Count())
	for _, sh := range r.shards {
		sh.mu.RLock()
		for _, c := range sh.conns {
			conns = append(conns, c)
		}
		sh.mu.RUnlock()
	}
	return conns
}

// Broadcast enqueues v on every currently-registered connection. Enqueue
// failures (a session mid-close) are silently dropped, per spec.md §4.9 —
// one dead session never blocks delivery to live ones.
func (r *Registry) Broadcast(v any) {
	for _, c := range r.AllConnections() {
		_ = c.Send(v)
	}
}

// BroadcastExcept is Broadcast, skipping the given id.
func (r *Registry) BroadcastExcept(exceptID string, v any) {
	for _, c := range r.AllConnections() {
		if c.ID() == exceptID {
			continue
		}
		_ = c.Send(v)
	}
}

// BroadcastTo enqueues v on every listed id that still exists.
func (r *Registry) BroadcastTo(ids []string, v any) {
	for _, id := range ids {
		if c, ok := r.Get(id); ok {
			_ = c.Send(v)
		}
	}
}

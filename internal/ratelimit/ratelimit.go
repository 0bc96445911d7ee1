// Package ratelimit implements a per-session fixed-window limiter,
// generalized from the teacher's internal/router/rate_limiter.go (a fixed
// 100-messages-per-minute limiter keyed by user id) into a configurable
// mechanism any Router can opt into via WithRateLimit.
package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// Limiter counts messages per session id in fixed windows: a window opens
// on a session's first message, and its count resets once period has
// elapsed since the window opened.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
}

// New constructs a Limiter allowing at most limit messages per period per
// session id.
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
	}
}

// Allow reports whether sessionID may send another message right now,
// advancing its window as a side effect.
func (l *Limiter) Allow(sessionID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[sessionID]
	if !exists {
		l.windows[sessionID] = &window{count: 1, start: now}
		return true
	}

	if now.Sub(w.start) >= l.period {
		w.count = 1
		w.start = now
		return true
	}

	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Forget drops tracked state for a session, intended to be called from
// on_disconnect to bound memory use.
func (l *Limiter) Forget(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, sessionID)
}

// Cleanup removes windows that have been idle for longer than 5x the
// configured period, mirroring the teacher's stale-entry sweep.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	stale := 5 * l.period
	for id, w := range l.windows {
		if now.Sub(w.start) > stale {
			delete(l.windows, id)
		}
	}
}

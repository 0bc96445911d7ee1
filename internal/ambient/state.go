// Package ambient implements the two keyed containers every extractor and
// handler reads from: a process-lifetime AppState keyed by value type, and
// a per-invocation Extensions bag keyed by string. Locking follows the
// teacher's registry discipline (sync.RWMutex, read-heavy workload).
package ambient

import (
	"reflect"
	"sync"
)

// AppState holds at most one value per concrete type, shared for the
// process lifetime. Last write wins.
type AppState struct {
	mu     sync.RWMutex
	values map[reflect.Type]any
}

// NewAppState constructs an empty AppState.
func NewAppState() *AppState {
	return &AppState{values: make(map[reflect.Type]any)}
}

// PutState stores v under its own concrete type, replacing any prior value
// stored under that type.
func PutState[T any](s *AppState, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[reflect.TypeOf(v)] = v
}

// GetState retrieves the value stored under type T, if any.
func GetState[T any](s *AppState) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	v, ok := s.values[reflect.TypeOf(zero)]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// Extensions holds per-invocation, string-keyed, type-erased values.
// Mutation is additive; there is no defined removal semantic. The router
// constructs a fresh Extensions per inbound frame unless the caller
// threads one through explicitly.
type Extensions struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewExtensions constructs an empty Extensions bag.
func NewExtensions() *Extensions {
	return &Extensions{values: make(map[string]any)}
}

// Set stores v under key, overwriting any existing value for that key.
func (e *Extensions) Set(key string, v any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values[key] = v
}

// GetExtension retrieves the value stored at key, type-asserted to T.
// Absence or a type mismatch both report ok=false.
func GetExtension[T any](e *Extensions, key string) (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var zero T
	v, exists := e.values[key]
	if !exists {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// Package arena implements spec.md §9's "arena-owned buffers addressed
// by BufferId" guidance: components hold ids, not references, breaking
// the editor/buffer/app cyclic-ownership problem.
//
// Grounded on original_source/src/auto_key_map.rs's AutoKeyMap (an
// id-keyed map with server-generated, monotonically ordered keys and
// sorted iteration), reshaped around github.com/segmentio/ksuid for id
// generation instead of an incrementing integer, since ksuid ids are
// already naturally sortable and this repo's DOMAIN STACK wires ksuid
// in for exactly this purpose (undo-tree node ids, BufferId
// generation).
package arena

import (
	"sort"
	"sync"

	"github.com/segmentio/ksuid"
)

// ID addresses one value owned by a Map.
type ID ksuid.KSUID

// NilID is the zero ID, returned by lookups that find nothing.
var NilID = ID(ksuid.Nil)

// String returns the base62 text form of the id, for logging and wire
// encoding (e.g. editor.Component.BufferID).
func (id ID) String() string {
	return ksuid.KSUID(id).String()
}

// Entry pairs an ID with its owned value, as returned by Entries.
type Entry[T any] struct {
	ID    ID
	Value T
}

// Map is a generic, concurrency-safe arena: insert to obtain a fresh
// ID, then address the value by that ID from anywhere without holding
// a Go pointer to it.
type Map[T any] struct {
	mu    sync.RWMutex
	items map[ID]T
	last  ksuid.KSUID
}

// New creates an empty Map.
func New[T any]() *Map[T] {
	return &Map[T]{items: make(map[ID]T)}
}

// Insert stores value under a freshly generated ID and returns it. Each
// ID is strictly greater than the one before it, even when several are
// generated within the same second.
func (m *Map[T]) Insert(value T) ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := ksuid.New()
	if ksuid.Compare(k, m.last) <= 0 {
		k = m.last.Next()
	}
	m.last = k
	id := ID(k)
	m.items[id] = value
	return id
}

// Remove deletes id's value, reporting whether it was present.
func (m *Map[T]) Remove(id ID) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[id]
	delete(m.items, id)
	return v, ok
}

// Get returns id's value, if present.
func (m *Map[T]) Get(id ID) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[id]
	return v, ok
}

// Set overwrites id's value in place, used after mutating a value
// retrieved by Get (Go values, unlike Rust's get_mut, aren't mutated
// through a borrow).
func (m *Map[T]) Set(id ID, value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = value
}

// Len returns the number of values currently held.
func (m *Map[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *Map[T]) sortedKeys() []ID {
	keys := make([]ID, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return ksuid.KSUID(keys[i]).Compare(ksuid.KSUID(keys[j])) < 0
	})
	return keys
}

// Keys returns every ID in ascending (creation) order.
func (m *Map[T]) Keys() []ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedKeys()
}

// Values returns every value in ascending-ID (creation) order.
func (m *Map[T]) Values() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := m.sortedKeys()
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.items[k])
	}
	return out
}

// Entries returns every (ID, value) pair in ascending-ID order.
func (m *Map[T]) Entries() []Entry[T] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := m.sortedKeys()
	out := make([]Entry[T], 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry[T]{ID: k, Value: m.items[k]})
	}
	return out
}

// Package cmap provides a concurrent-safe sharded map.
//
// Keys are distributed across independently locked shards so that point
// reads and writes on different keys rarely contend. Operations that must
// span the whole map (Range, Count) take shard locks one at a time and do
// not present a consistent snapshot.
package cmap

import (
	"fmt"
	"hash/maphash"
	"sync"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

// Map is a concurrent-safe sharded map.
type Map[K comparable, V any] struct {
	shards    []*shard[K, V]
	shardMask uint64
	seed      maphash.Seed
}

type shard[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// New creates a sharded map with DefaultShardCount shards.
func New[K comparable, V any]() *Map[K, V] {
	return NewWithShards[K, V](DefaultShardCount)
}

// NewWithShards creates a sharded map with the given shard count.
// The count must be a power of two; invalid counts fall back to the default.
func NewWithShards[K comparable, V any](count int) *Map[K, V] {
	if count <= 0 || count&(count-1) != 0 {
		count = DefaultShardCount
	}
	m := &Map[K, V]{
		shards:    make([]*shard[K, V], count),
		shardMask: uint64(count - 1),
		seed:      maphash.MakeSeed(),
	}
	for i := range m.shards {
		m.shards[i] = &shard[K, V]{items: make(map[K]V)}
	}
	return m
}

func (m *Map[K, V]) shardFor(key K) *shard[K, V] {
	var h maphash.Hash
	h.SetSeed(m.seed)
	h.WriteString(fmt.Sprintf("%v", key))
	return m.shards[h.Sum64()&m.shardMask]
}

// Get retrieves the value for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Set stores a key-value pair.
func (m *Map[K, V]) Set(key K, value V) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// Delete removes a key.
func (m *Map[K, V]) Delete(key K) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Pop removes key and returns its previous value.
func (m *Map[K, V]) Pop(key K) (V, bool) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if ok {
		delete(s.items, key)
	}
	return v, ok
}

// GetOrSet returns the existing value for key, or stores and returns value
// if the key is absent. The second result reports whether the key existed.
func (m *Map[K, V]) GetOrSet(key K, value V) (V, bool) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.items[key]; ok {
		return existing, true
	}
	s.items[key] = value
	return value, false
}

// SetIfAbsent stores value only when key is not already present.
// It reports whether the value was stored.
func (m *Map[K, V]) SetIfAbsent(key K, value V) bool {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; ok {
		return false
	}
	s.items[key] = value
	return true
}

// Update atomically applies fn to the value for key. fn receives the
// current value (or the zero value) and whether the key exists, and
// returns the new value plus whether the key should be kept: returning
// false removes the key, or leaves it absent. Update reports whether the
// key is present afterwards.
func (m *Map[K, V]) Update(key K, fn func(value V, exists bool) (V, bool)) bool {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[key]
	next, keep := fn(existing, ok)
	if keep {
		s.items[key] = next
		return true
	}
	delete(s.items, key)
	return false
}

// Count returns the total number of entries.
func (m *Map[K, V]) Count() int {
	n := 0
	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() {
	for _, s := range m.shards {
		s.mu.Lock()
		s.items = make(map[K]V)
		s.mu.Unlock()
	}
}

// Range iterates over all entries. The callback returns false to stop.
// Locks are taken shard by shard, so the view may not be consistent.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Keys returns all keys.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Count())
	m.Range(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Values returns all values.
func (m *Map[K, V]) Values() []V {
	values := make([]V, 0, m.Count())
	m.Range(func(_ K, v V) bool {
		values = append(values, v)
		return true
	})
	return values
}

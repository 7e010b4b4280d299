package rowstore

import "iter"

type slot[K comparable, V any] struct {
	key  K
	val  V
	live bool
}

// Store is an in-memory primary store backed by a Go map and a slot arena.
// It is not safe for concurrent use.
type Store[K comparable, V any] struct {
	ids   map[K]uint32
	slots []slot[K, V]
	free  []uint32
}

// New creates a new store with room for capacity rows.
func New[K comparable, V any](capacity int) *Store[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Store[K, V]{
		ids:   make(map[K]uint32, capacity),
		slots: make([]slot[K, V], 0, capacity),
	}
}

// Len returns the number of live rows.
func (s *Store[K, V]) Len() int {
	return len(s.ids)
}

// Lookup returns the slot id for the given key.
func (s *Store[K, V]) Lookup(k K) (uint32, bool) {
	id, ok := s.ids[k]
	return id, ok
}

// Get returns the value stored under the given key.
func (s *Store[K, V]) Get(k K) (V, bool) {
	id, ok := s.ids[k]
	if !ok {
		var zero V
		return zero, false
	}
	return s.slots[id].val, true
}

// At returns the row stored in slot id.
func (s *Store[K, V]) At(id uint32) (K, V, bool) {
	if int(id) >= len(s.slots) || !s.slots[id].live {
		var (
			zk K
			zv V
		)
		return zk, zv, false
	}
	sl := &s.slots[id]
	return sl.key, sl.val, true
}

// Put stores v under k and returns the assigned slot id.
// If k is already present nothing is changed and ok is false.
func (s *Store[K, V]) Put(k K, v V) (id uint32, ok bool) {
	if _, exists := s.ids[k]; exists {
		return 0, false
	}

	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[id] = slot[K, V]{key: k, val: v, live: true}
	} else {
		id = uint32(len(s.slots))
		s.slots = append(s.slots, slot[K, V]{key: k, val: v, live: true})
	}

	s.ids[k] = id
	return id, true
}

// Delete removes the row stored under k and returns its former slot id and value.
func (s *Store[K, V]) Delete(k K) (uint32, V, bool) {
	id, ok := s.ids[k]
	if !ok {
		var zero V
		return 0, zero, false
	}

	v := s.slots[id].val
	// Zero the slot so the arena does not pin the removed value.
	s.slots[id] = slot[K, V]{}
	delete(s.ids, k)
	s.free = append(s.free, id)

	return id, v, true
}

// All iterates live rows in slot order.
func (s *Store[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range s.slots {
			sl := &s.slots[i]
			if !sl.live {
				continue
			}
			if !yield(sl.key, sl.val) {
				return
			}
		}
	}
}

// Reset drops all rows. The arena capacity is kept.
func (s *Store[K, V]) Reset() {
	clear(s.ids)
	clear(s.slots)
	s.slots = s.slots[:0]
	s.free = s.free[:0]
}

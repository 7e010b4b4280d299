package indextable

import (
	"iter"
	"slices"
	"sync"
)

// Locked wraps a Table with a sync.RWMutex so it can be shared between
// goroutines. Mutations are serialized; reads run concurrently.
//
// Iteration helpers return collected slices instead of live iterators so no
// lock is held while the caller consumes the result.
type Locked[K comparable, C comparable, R Record[K, C]] struct {
	mu sync.RWMutex
	t  *Table[K, C, R]
}

// NewLocked wraps t. The caller must not use t directly afterwards.
func NewLocked[K comparable, C comparable, R Record[K, C]](t *Table[K, C, R]) *Locked[K, C, R] {
	return &Locked[K, C, R]{t: t}
}

// Insert is Table.Insert under the write lock.
func (l *Locked[K, C, R]) Insert(r R) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Insert(r)
}

// InsertAll is Table.InsertAll under the write lock.
func (l *Locked[K, C, R]) InsertAll(seq iter.Seq[R]) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.InsertAll(seq)
}

// Remove is Table.Remove under the write lock.
func (l *Locked[K, C, R]) Remove(k K) (R, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Remove(k)
}

// Clear is Table.Clear under the write lock.
func (l *Locked[K, C, R]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.t.Clear()
}

// Get is Table.Get under the read lock.
func (l *Locked[K, C, R]) Get(k K) (R, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.t.Get(k)
}

// Find is Table.Find under the read lock.
func (l *Locked[K, C, R]) Find(c C) []R {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.t.Find(c)
}

// FindMany is Table.FindMany under the read lock.
func (l *Locked[K, C, R]) FindMany(cs ...C) []R {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.t.FindMany(cs...)
}

// Len is Table.Len under the read lock.
func (l *Locked[K, C, R]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.t.Len()
}

// Contains is Table.Contains under the read lock.
func (l *Locked[K, C, R]) Contains(k K) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.t.Contains(k)
}

// Values returns a copy of the stored records in table order.
func (l *Locked[K, C, R]) Values() []R {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Collect(l.t.Values())
}

// View runs fn with shared access to the underlying table.
// fn must not mutate the table or retain it after returning.
func (l *Locked[K, C, R]) View(fn func(t *Table[K, C, R])) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.t)
}

// Mutate runs fn with exclusive access to the underlying table.
func (l *Locked[K, C, R]) Mutate(fn func(t *Table[K, C, R]) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.t)
}

package indextable

import (
	"context"
	"iter"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/indextable/internal/catindex"
	"github.com/hupe1980/indextable/internal/rowstore"
)

// Record is the capability a value needs to be stored in a Table.
//
// Key must be unique among the records stored in one table. Categories lists
// the values the record is discoverable under; it is evaluated once, when the
// record is inserted, and must be pure. Repeated categories collapse.
//
// Keys and categories must be equal to themselves under ==. A float NaN, or
// an interface holding one, is never found again once stored, so it cannot be
// looked up and its index entry outlives the record.
type Record[K comparable, C comparable] interface {
	Key() K
	Categories() []C
}

// entry is a stored record together with the category snapshot taken at insertion.
type entry[C comparable, R any] struct {
	rec  R
	cats []C
}

// Table stores records by primary key and maintains a category index over them.
//
// Records are held by value. Changing a stored record's category-relevant
// fields out-of-band does not update the index; Remove and re-Insert instead.
//
// A Table is not safe for concurrent use. Wrap it with NewLocked (or an
// external lock) when it is shared between goroutines.
type Table[K comparable, C comparable, R Record[K, C]] struct {
	rows  *rowstore.Store[K, entry[C, R]]
	index *catindex.Index[C]

	metrics MetricsCollector
	logger  *Logger
}

// New creates an empty table.
func New[K comparable, C comparable, R Record[K, C]](optFns ...Option) *Table[K, C, R] {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Table[K, C, R]{
		rows:    rowstore.New[K, entry[C, R]](opts.capacity),
		index:   catindex.New[C](),
		metrics: opts.metricsCollector,
		logger:  opts.logger,
	}
}

// FromSeq creates a table holding every record of seq.
// It fails with the first *KeyCollisionError if seq repeats a key.
func FromSeq[K comparable, C comparable, R Record[K, C]](seq iter.Seq[R], optFns ...Option) (*Table[K, C, R], error) {
	t := New[K, C, R](optFns...)
	if _, err := t.InsertAll(seq); err != nil {
		return nil, err
	}
	return t, nil
}

// Insert stores r and registers it under each of its categories.
//
// If r.Key() is already present, Insert returns a *KeyCollisionError and
// leaves the table untouched.
func (t *Table[K, C, R]) Insert(r R) error {
	start := time.Now()
	key := r.Key()
	n, err := t.insert(key, r)
	t.metrics.RecordInsert(time.Since(start), err)
	t.logger.LogInsert(context.Background(), key, n, err)
	return err
}

func (t *Table[K, C, R]) insert(key K, r R) (int, error) {
	if _, exists := t.rows.Lookup(key); exists {
		return 0, &KeyCollisionError[K]{Key: key}
	}

	cats := catindex.Dedup(r.Categories())
	id, _ := t.rows.Put(key, entry[C, R]{rec: r, cats: cats})
	t.index.Add(id, cats)

	return len(cats), nil
}

// InsertAll inserts the records of seq in order and stops at the first
// collision. It returns the number of records inserted; those stay in the
// table even if an error is returned.
func (t *Table[K, C, R]) InsertAll(seq iter.Seq[R]) (int, error) {
	start := time.Now()

	var (
		inserted int
		err      error
	)
	for r := range seq {
		if _, err = t.insert(r.Key(), r); err != nil {
			break
		}
		inserted++
	}

	failed := 0
	if err != nil {
		failed = 1
	}
	t.metrics.RecordBulkInsert(inserted, failed, time.Since(start))
	t.logger.LogBulkInsert(context.Background(), inserted, err)

	return inserted, err
}

// Get returns the record stored under k.
func (t *Table[K, C, R]) Get(k K) (R, bool) {
	e, ok := t.rows.Get(k)
	return e.rec, ok
}

// Find returns the records registered under c, or an empty slice if there
// are none. Order is unspecified.
func (t *Table[K, C, R]) Find(c C) []R {
	start := time.Now()
	out := t.collect(t.index.Lookup(c))
	t.metrics.RecordFind(false, 1, len(out), time.Since(start))
	return out
}

// FindMany returns the records registered under any of cs. Each record appears
// once no matter how many of cs it matches. Order is unspecified.
func (t *Table[K, C, R]) FindMany(cs ...C) []R {
	start := time.Now()
	var out []R
	if len(cs) == 0 {
		out = []R{}
	} else {
		out = t.collect(t.index.Union(cs))
	}
	t.metrics.RecordFind(true, len(cs), len(out), time.Since(start))
	return out
}

func (t *Table[K, C, R]) collect(bm *roaring.Bitmap) []R {
	if bm == nil {
		return []R{}
	}

	out := make([]R, 0, bm.GetCardinality())
	for id := range catindex.IDs(bm) {
		_, e, ok := t.rows.At(id)
		if !ok {
			// Unreachable while the index and the store agree.
			continue
		}
		out = append(out, e.rec)
	}
	return out
}

// Remove deletes the record stored under k together with every index entry
// it was registered under, and returns it.
func (t *Table[K, C, R]) Remove(k K) (R, bool) {
	start := time.Now()

	id, e, ok := t.rows.Delete(k)
	if ok {
		t.index.Remove(id, e.cats)
	}

	t.metrics.RecordRemove(ok, time.Since(start))
	t.logger.LogRemove(context.Background(), k, ok)

	return e.rec, ok
}

// Clear removes every record.
func (t *Table[K, C, R]) Clear() {
	t.rows.Reset()
	t.index.Reset()
}

// Len returns the number of stored records.
func (t *Table[K, C, R]) Len() int {
	return t.rows.Len()
}

// Contains reports whether a record is stored under k.
func (t *Table[K, C, R]) Contains(k K) bool {
	_, ok := t.rows.Lookup(k)
	return ok
}

// ContainsRecord reports whether a record with r's key is stored.
func (t *Table[K, C, R]) ContainsRecord(r R) bool {
	return t.Contains(r.Key())
}

// ContainsCategory reports whether at least one record is registered under c.
func (t *Table[K, C, R]) ContainsCategory(c C) bool {
	return t.index.Contains(c)
}

// CountCategory returns the number of records registered under c.
func (t *Table[K, C, R]) CountCategory(c C) int {
	return t.index.Cardinality(c)
}

// CategoriesOf returns the categories the record under k was indexed with,
// deduplicated, in the order the record first reported them.
func (t *Table[K, C, R]) CategoriesOf(k K) ([]C, bool) {
	e, ok := t.rows.Get(k)
	if !ok {
		return nil, false
	}
	return slices.Clone(e.cats), true
}

// All iterates the stored records with their keys.
func (t *Table[K, C, R]) All() iter.Seq2[K, R] {
	return func(yield func(K, R) bool) {
		for k, e := range t.rows.All() {
			if !yield(k, e.rec) {
				return
			}
		}
	}
}

// Values iterates the stored records.
func (t *Table[K, C, R]) Values() iter.Seq[R] {
	return func(yield func(R) bool) {
		for _, e := range t.rows.All() {
			if !yield(e.rec) {
				return
			}
		}
	}
}

// Keys iterates the stored keys.
func (t *Table[K, C, R]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range t.rows.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Categories iterates every category at least one stored record is registered under.
func (t *Table[K, C, R]) Categories() iter.Seq[C] {
	return t.index.Categories()
}

// Package catindex implements the category index of a table.
//
// Every category maps to a Roaring Bitmap of row slot ids. A category whose
// bitmap becomes empty is removed, so the set of indexed categories always
// equals the set of categories held by at least one live row.
package catindex

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Index accelerates lookups of rows by category.
// It is not safe for concurrent use.
type Index[C comparable] struct {
	// category -> slot ids
	postings map[C]*roaring.Bitmap
}

// New creates an empty index.
func New[C comparable]() *Index[C] {
	return &Index[C]{postings: make(map[C]*roaring.Bitmap)}
}

// Add registers slot id under every category in cats.
// Duplicate categories are harmless.
func (ix *Index[C]) Add(id uint32, cats []C) {
	for _, c := range cats {
		bm, ok := ix.postings[c]
		if !ok {
			bm = roaring.New()
			ix.postings[c] = bm
		}
		bm.Add(id)
	}
}

// Remove unregisters slot id from every category in cats.
func (ix *Index[C]) Remove(id uint32, cats []C) {
	for _, c := range cats {
		bm, ok := ix.postings[c]
		if !ok {
			continue
		}
		bm.Remove(id)
		if bm.IsEmpty() {
			delete(ix.postings, c)
		}
	}
}

// Lookup returns the postings of category c, or nil if c is not indexed.
// The returned bitmap is owned by the index and must not be modified.
func (ix *Index[C]) Lookup(c C) *roaring.Bitmap {
	return ix.postings[c]
}

// Union returns a fresh bitmap holding every slot id registered under any of cats.
func (ix *Index[C]) Union(cats []C) *roaring.Bitmap {
	bms := make([]*roaring.Bitmap, 0, len(cats))
	for _, c := range cats {
		if bm, ok := ix.postings[c]; ok {
			bms = append(bms, bm)
		}
	}

	switch len(bms) {
	case 0:
		return roaring.New()
	case 1:
		return bms[0].Clone()
	default:
		return roaring.FastOr(bms...)
	}
}

// Contains reports whether at least one row is registered under c.
func (ix *Index[C]) Contains(c C) bool {
	_, ok := ix.postings[c]
	return ok
}

// Cardinality returns the number of rows registered under c.
func (ix *Index[C]) Cardinality(c C) int {
	bm, ok := ix.postings[c]
	if !ok {
		return 0
	}
	return int(bm.GetCardinality())
}

// Len returns the number of indexed categories.
func (ix *Index[C]) Len() int {
	return len(ix.postings)
}

// Categories iterates the indexed categories in unspecified order.
func (ix *Index[C]) Categories() iter.Seq[C] {
	return func(yield func(C) bool) {
		for c := range ix.postings {
			if !yield(c) {
				return
			}
		}
	}
}

// Reset drops every category.
func (ix *Index[C]) Reset() {
	clear(ix.postings)
}

// IDs iterates the slot ids of bm in ascending order.
func IDs(bm *roaring.Bitmap) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		if bm == nil {
			return
		}
		it := bm.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Dedup returns cats without repeated values, keeping first occurrences in order.
func Dedup[C comparable](cats []C) []C {
	if len(cats) < 2 {
		return append([]C(nil), cats...)
	}
	seen := make(map[C]struct{}, len(cats))
	out := make([]C, 0, len(cats))
	for _, c := range cats {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Package indextable provides an in-memory table that stores records under
// a unique primary key and keeps a secondary category index in sync with them.
//
// Any type implementing Record can be stored. The Key identifies the record;
// Categories lists the values it can be found under. Categories are read once
// at insertion and indexed until the record is removed.
//
// # Quick Start
//
//	type Book struct {
//	    ID      int
//	    Author  string
//	    Science string
//	}
//
//	func (b Book) Key() int             { return b.ID }
//	func (b Book) Categories() []string { return []string{"author:" + b.Author, "science:" + b.Science} }
//
//	books := indextable.New[int, string, Book]()
//	_ = books.Insert(Book{ID: 1, Author: "knuth", Science: "cs"})
//	_ = books.Insert(Book{ID: 2, Author: "knuth", Science: "math"})
//
//	b, ok := books.Get(1)                                  // primary lookup
//	byKnuth := books.Find("author:knuth")                  // both books
//	either := books.FindMany("science:cs", "science:math") // both books, once each
//	removed, ok := books.Remove(2)                         // drops its index entries too
//
// # Consistency
//
// After every operation:
//
//   - no two records share a key
//   - Find(c) returns exactly the stored records that reported c at insertion
//   - categories without records are not indexed
//
// Insert of an existing key fails with a *KeyCollisionError (matching
// ErrKeyCollision) and changes nothing. All other operations are total:
// absence is reported by an empty result or a false flag, not an error.
//
// # Storage Layout
//
// The primary store keeps records in a slot arena addressed by a key map.
// The category index maps each category to a Roaring Bitmap of slot ids, so
// FindMany is a bitmap union and the index never holds record pointers.
//
// # Concurrency
//
// A Table is owned by a single goroutine. Use NewLocked to share one.
//
// # Serialization
//
// All and Values expose the content for export, FromSeq and InsertAll
// rebuild a table from a decoded sequence. The snapshot package implements a
// framed, checksummed format on top of them.
package indextable

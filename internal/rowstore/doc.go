// Package rowstore provides the primary store of a table.
//
// The store maps a caller key to a dense slot id and keeps the row values in
// an arena indexed by that id. Secondary structures (the category index)
// reference rows by slot id only, never by pointer.
//
// # Slot reuse
//
// Deleting a row vacates its slot and pushes the id onto a free list. The next
// Put pops the most recently vacated id (LIFO). Callers must erase every
// external reference to an id before deleting it from the store.
package rowstore

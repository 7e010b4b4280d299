package testutil

import "fmt"

// BookID is the primary key of a Book.
type BookID uint64

// ScienceID identifies a field of science.
type ScienceID uint64

// AuthorID identifies an author.
type AuthorID uint64

// CategoryKind distinguishes the category families of a Book.
type CategoryKind uint8

const (
	KindScience CategoryKind = iota + 1
	KindAuthor
)

// BookCategory is a category a Book is indexed under.
type BookCategory struct {
	Kind CategoryKind `json:"kind" yaml:"kind"`
	ID   uint64       `json:"id" yaml:"id"`
}

// Science returns the category of all books in science s.
func Science(s ScienceID) BookCategory { return BookCategory{Kind: KindScience, ID: uint64(s)} }

// Author returns the category of all books by author a.
func Author(a AuthorID) BookCategory { return BookCategory{Kind: KindAuthor, ID: uint64(a)} }

func (c BookCategory) String() string {
	switch c.Kind {
	case KindScience:
		return fmt.Sprintf("science:%d", c.ID)
	case KindAuthor:
		return fmt.Sprintf("author:%d", c.ID)
	default:
		return fmt.Sprintf("unknown:%d", c.ID)
	}
}

// Book is a record indexed by its science and its author.
type Book struct {
	ID      BookID    `json:"id" yaml:"id"`
	Title   string    `json:"title" yaml:"title"`
	Science ScienceID `json:"science" yaml:"science"`
	Author  AuthorID  `json:"author" yaml:"author"`
}

// Key implements indextable.Record.
func (b Book) Key() BookID { return b.ID }

// Categories implements indextable.Record.
func (b Book) Categories() []BookCategory {
	return []BookCategory{Science(b.Science), Author(b.Author)}
}

// Books returns seven books over sciences 2..4 and authors 10..13.
// Books 1-3 share science 2, books 4-6 share science 3, authors 10..12 each
// wrote one book in science 2 and one in science 3. Book 7 is alone in both
// of its categories.
func Books() []Book {
	return []Book{
		{ID: 1, Title: "Book 1", Science: 2, Author: 10},
		{ID: 2, Title: "Book 2", Science: 2, Author: 11},
		{ID: 3, Title: "Book 3", Science: 2, Author: 12},
		{ID: 4, Title: "Book 4", Science: 3, Author: 10},
		{ID: 5, Title: "Book 5", Science: 3, Author: 11},
		{ID: 6, Title: "Book 6", Science: 3, Author: 12},
		{ID: 7, Title: "Book 7", Science: 4, Author: 13},
	}
}

// Tagged is a record with caller-controlled categories, useful for edge cases
// like empty or repeated category lists.
type Tagged struct {
	ID   string   `json:"id" yaml:"id"`
	Tags []string `json:"tags" yaml:"tags"`
}

// Key implements indextable.Record.
func (t Tagged) Key() string { return t.ID }

// Categories implements indextable.Record.
func (t Tagged) Categories() []string { return t.Tags }

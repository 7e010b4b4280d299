// Package testutil provides testing utilities for indextable.
//
// This package is intended for use in tests and benchmarks only.
// It provides a small library domain (books indexed by science and author)
// and a deterministic generator for it.
//
// # Fixtures
//
//	books := testutil.Books()                 // the seven canonical books
//	rng := testutil.NewRNG(seed)
//	more := rng.Books(1000, 16, 64, 1.2)      // Zipf-skewed categories
package testutil

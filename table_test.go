package indextable

import (
	"errors"
	"maps"
	"math"
	"slices"
	"testing"

	"github.com/hupe1980/indextable/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	book     = testutil.Book
	bookID   = testutil.BookID
	category = testutil.BookCategory
)

func newBookTable(t *testing.T) *Table[bookID, category, book] {
	t.Helper()
	tbl, err := FromSeq[bookID, category, book](slices.Values(testutil.Books()))
	require.NoError(t, err)
	return tbl
}

func bookIDs(books []book) []bookID {
	ids := make([]bookID, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	slices.Sort(ids)
	return ids
}

// letter is a record in the A/B/C scenario: key -> categories.
type letter struct {
	id   int
	cats []string
}

func (l letter) Key() int             { return l.id }
func (l letter) Categories() []string { return l.cats }

func letterKeys(ls []letter) []int {
	keys := make([]int, 0, len(ls))
	for _, l := range ls {
		keys = append(keys, l.id)
	}
	slices.Sort(keys)
	return keys
}

func TestTable_Scenario(t *testing.T) {
	tbl := New[int, string, letter]()
	require.NoError(t, tbl.Insert(letter{1, []string{"A", "B"}}))
	require.NoError(t, tbl.Insert(letter{2, []string{"B", "C"}}))
	require.NoError(t, tbl.Insert(letter{3, []string{"A", "C"}}))

	assert.Equal(t, []int{1, 2}, letterKeys(tbl.Find("B")))
	assert.Equal(t, []int{1, 2, 3}, letterKeys(tbl.FindMany("A", "C")))

	removed, ok := tbl.Remove(2)
	require.True(t, ok)
	assert.Equal(t, 2, removed.id)

	assert.Equal(t, []int{1}, letterKeys(tbl.Find("B")))
	assert.Equal(t, []int{3}, letterKeys(tbl.Find("C")))
}

func TestTable_InsertCollisionLeavesNoTrace(t *testing.T) {
	tbl := New[int, string, letter]()
	require.NoError(t, tbl.Insert(letter{1, []string{"A", "B"}}))
	require.NoError(t, tbl.Insert(letter{2, []string{"B", "C"}}))

	catsBefore, ok := tbl.CategoriesOf(1)
	require.True(t, ok)
	indexBefore := slices.Sorted(tbl.Categories())

	err := tbl.Insert(letter{1, []string{"X", "Y"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKeyCollision))

	var kc *KeyCollisionError[int]
	require.True(t, errors.As(err, &kc))
	assert.Equal(t, 1, kc.Key)

	assert.Empty(t, tbl.Find("X"))
	assert.Empty(t, tbl.Find("Y"))
	assert.Empty(t, tbl.FindMany("X", "Y"))
	assert.False(t, tbl.ContainsCategory("X"))

	// The original record is untouched.
	got, ok := tbl.Get(1)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, got.cats)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []int{1}, letterKeys(tbl.Find("A")))
	assert.Equal(t, []int{1, 2}, letterKeys(tbl.Find("B")))

	catsAfter, ok := tbl.CategoriesOf(1)
	require.True(t, ok)
	assert.Equal(t, catsBefore, catsAfter)
	assert.Equal(t, indexBefore, slices.Sorted(tbl.Categories()))
	assert.Equal(t, []string{"A", "B", "C"}, indexBefore)
}

func TestTable_Get(t *testing.T) {
	tbl := newBookTable(t)
	books := testutil.Books()

	for _, b := range books {
		got, ok := tbl.Get(b.ID)
		require.True(t, ok)
		assert.Equal(t, b, got)
	}

	_, ok := tbl.Get(654321)
	assert.False(t, ok)
}

func TestTable_Contains(t *testing.T) {
	tbl := newBookTable(t)
	for _, b := range testutil.Books() {
		assert.True(t, tbl.Contains(b.ID))
		assert.True(t, tbl.ContainsRecord(b))
	}
	assert.False(t, tbl.Contains(1000))
	assert.False(t, tbl.ContainsRecord(book{ID: 1000}))
}

func TestTable_Categories(t *testing.T) {
	tbl := newBookTable(t)

	assert.Equal(t, 7, tbl.Len())
	for _, s := range []testutil.ScienceID{2, 3, 4} {
		assert.True(t, tbl.ContainsCategory(testutil.Science(s)))
	}
	assert.False(t, tbl.ContainsCategory(testutil.Science(5)))

	assert.Equal(t, 3, tbl.CountCategory(testutil.Science(2)))
	assert.Equal(t, 2, tbl.CountCategory(testutil.Author(10)))
	assert.Equal(t, 1, tbl.CountCategory(testutil.Author(13)))
	assert.Equal(t, 0, tbl.CountCategory(testutil.Author(99)))

	want := make(map[category]struct{})
	for _, b := range testutil.Books() {
		for _, c := range b.Categories() {
			want[c] = struct{}{}
		}
	}
	got := make(map[category]struct{})
	for c := range tbl.Categories() {
		got[c] = struct{}{}
	}
	assert.Equal(t, want, got)
}

func TestTable_Find(t *testing.T) {
	tbl := newBookTable(t)

	assert.Equal(t, []bookID{1, 2, 3}, bookIDs(tbl.Find(testutil.Science(2))))
	assert.Equal(t, []bookID{4, 5, 6}, bookIDs(tbl.Find(testutil.Science(3))))
	assert.Equal(t, []bookID{1, 4}, bookIDs(tbl.Find(testutil.Author(10))))
	assert.Equal(t, []bookID{7}, bookIDs(tbl.Find(testutil.Author(13))))

	none := tbl.Find(testutil.Science(100))
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTable_FindMany(t *testing.T) {
	tbl := newBookTable(t)

	got := tbl.FindMany(testutil.Science(2), testutil.Author(10))
	assert.Equal(t, []bookID{1, 2, 3, 4}, bookIDs(got))

	// Union with itself does not duplicate.
	got = tbl.FindMany(testutil.Science(2), testutil.Science(2))
	assert.Equal(t, []bookID{1, 2, 3}, bookIDs(got))

	// Unknown categories contribute nothing.
	got = tbl.FindMany(testutil.Science(100), testutil.Author(13))
	assert.Equal(t, []bookID{7}, bookIDs(got))

	empty := tbl.FindMany()
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTable_FindManyEqualsUnionOfFind(t *testing.T) {
	tbl := newBookTable(t)
	cats := slices.Collect(tbl.Categories())

	for _, c1 := range cats {
		for _, c2 := range cats {
			want := make(map[bookID]struct{})
			for _, b := range tbl.Find(c1) {
				want[b.ID] = struct{}{}
			}
			for _, b := range tbl.Find(c2) {
				want[b.ID] = struct{}{}
			}

			got := bookIDs(tbl.FindMany(c1, c2))
			wantIDs := slices.Sorted(maps.Keys(want))
			assert.Equal(t, wantIDs, got, "FindMany(%v, %v)", c1, c2)
		}
	}
}

func TestTable_Remove(t *testing.T) {
	tbl := newBookTable(t)

	b, ok := tbl.Remove(1)
	require.True(t, ok)
	assert.Equal(t, bookID(1), b.ID)
	assert.Equal(t, 6, tbl.Len())

	_, ok = tbl.Get(1)
	assert.False(t, ok)
	assert.Equal(t, []bookID{2, 3}, bookIDs(tbl.Find(testutil.Science(2))))
	assert.Equal(t, []bookID{4}, bookIDs(tbl.Find(testutil.Author(10))))

	// Removing an absent key changes nothing.
	_, ok = tbl.Remove(1)
	assert.False(t, ok)
	_, ok = tbl.Remove(12345)
	assert.False(t, ok)
	assert.Equal(t, 6, tbl.Len())
}

func TestTable_RemoveDropsEmptyCategories(t *testing.T) {
	tbl := newBookTable(t)

	_, ok := tbl.Remove(7)
	require.True(t, ok)

	assert.False(t, tbl.ContainsCategory(testutil.Science(4)))
	assert.False(t, tbl.ContainsCategory(testutil.Author(13)))
	assert.Empty(t, tbl.Find(testutil.Science(4)))
	assert.Empty(t, tbl.FindMany(testutil.Science(4), testutil.Author(13)))
}

func TestTable_SlotReuseDoesNotLeakCategories(t *testing.T) {
	tbl := New[string, string, testutil.Tagged]()
	require.NoError(t, tbl.Insert(testutil.Tagged{ID: "a", Tags: []string{"red", "big"}}))
	require.NoError(t, tbl.Insert(testutil.Tagged{ID: "b", Tags: []string{"red"}}))

	_, ok := tbl.Remove("a")
	require.True(t, ok)

	// "c" takes over the slot vacated by "a".
	require.NoError(t, tbl.Insert(testutil.Tagged{ID: "c", Tags: []string{"small"}}))

	assert.Empty(t, tbl.Find("big"))
	red := tbl.Find("red")
	require.Len(t, red, 1)
	assert.Equal(t, "b", red[0].ID)
	small := tbl.Find("small")
	require.Len(t, small, 1)
	assert.Equal(t, "c", small[0].ID)
}

type reading struct {
	id   int
	vals []float64
}

func (r reading) Key() int              { return r.id }
func (r reading) Categories() []float64 { return r.vals }

func TestTable_NaNCategoryIsUnreachable(t *testing.T) {
	tbl := New[int, float64, reading]()
	require.NoError(t, tbl.Insert(reading{1, []float64{math.NaN(), 1}}))

	assert.Empty(t, tbl.Find(math.NaN()))
	assert.False(t, tbl.ContainsCategory(math.NaN()))
	assert.Len(t, tbl.Find(1), 1)
}

func TestTable_DuplicateAndEmptyCategories(t *testing.T) {
	tbl := New[string, string, testutil.Tagged]()
	require.NoError(t, tbl.Insert(testutil.Tagged{ID: "dup", Tags: []string{"x", "x", "y", "x"}}))
	require.NoError(t, tbl.Insert(testutil.Tagged{ID: "none"}))

	assert.Len(t, tbl.Find("x"), 1)
	assert.Equal(t, 1, tbl.CountCategory("x"))

	cats, ok := tbl.CategoriesOf("dup")
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, cats)

	cats, ok = tbl.CategoriesOf("none")
	require.True(t, ok)
	assert.Empty(t, cats)

	_, ok = tbl.CategoriesOf("missing")
	assert.False(t, ok)

	// Removing a record with repeated categories clears them fully.
	_, ok = tbl.Remove("dup")
	require.True(t, ok)
	assert.False(t, tbl.ContainsCategory("x"))
	assert.False(t, tbl.ContainsCategory("y"))

	// A record without categories is still reachable by key.
	_, ok = tbl.Get("none")
	assert.True(t, ok)
}

func TestTable_CategoriesAreSnapshotAtInsert(t *testing.T) {
	tags := []string{"before"}
	tbl := New[string, string, testutil.Tagged]()
	require.NoError(t, tbl.Insert(testutil.Tagged{ID: "r", Tags: tags}))

	// Mutating the caller's slice does not reach the index.
	tags[0] = "after"
	assert.Len(t, tbl.Find("before"), 1)
	assert.Empty(t, tbl.Find("after"))

	cats, _ := tbl.CategoriesOf("r")
	cats[0] = "changed"
	again, _ := tbl.CategoriesOf("r")
	assert.Equal(t, []string{"before"}, again)
}

func TestTable_InsertAll(t *testing.T) {
	tbl := New[int, string, letter]()

	n, err := tbl.InsertAll(slices.Values([]letter{
		{1, []string{"A"}},
		{2, []string{"B"}},
		{1, []string{"C"}},
		{3, []string{"D"}},
	}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKeyCollision))
	assert.Equal(t, 2, n)

	// Records before the collision stay, the rest are skipped.
	assert.Equal(t, 2, tbl.Len())
	assert.Empty(t, tbl.Find("C"))
	assert.False(t, tbl.Contains(3))
}

func TestFromSeq_Collision(t *testing.T) {
	books := append(testutil.Books(), testutil.Books()[0])
	tbl, err := FromSeq[bookID, category, book](slices.Values(books))
	assert.Nil(t, tbl)

	var kc *KeyCollisionError[bookID]
	require.True(t, errors.As(err, &kc))
	assert.Equal(t, bookID(1), kc.Key)
}

func TestTable_Iteration(t *testing.T) {
	tbl := newBookTable(t)
	books := testutil.Books()

	all := make(map[bookID]book)
	for k, v := range tbl.All() {
		all[k] = v
	}
	want := make(map[bookID]book)
	for _, b := range books {
		want[b.ID] = b
	}
	assert.Equal(t, want, all)

	assert.ElementsMatch(t, books, slices.Collect(tbl.Values()))
	assert.Equal(t, []bookID{1, 2, 3, 4, 5, 6, 7}, slices.Sorted(tbl.Keys()))

	// Early termination.
	n := 0
	for range tbl.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestTable_Clear(t *testing.T) {
	tbl := newBookTable(t)
	tbl.Clear()

	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.Find(testutil.Science(2)))
	assert.Empty(t, slices.Collect(tbl.Categories()))

	require.NoError(t, tbl.Insert(testutil.Books()[0]))
	assert.Equal(t, []bookID{1}, bookIDs(tbl.Find(testutil.Science(2))))
}

// checkInvariants compares the table against a reference model of the
// records it is expected to hold.
func checkInvariants(t *testing.T, tbl *Table[bookID, category, book], model map[bookID]book, probe []category) {
	t.Helper()

	require.Equal(t, len(model), tbl.Len())

	expected := make(map[category][]bookID)
	for id, b := range model {
		got, ok := tbl.Get(id)
		require.True(t, ok, "missing %d", id)
		require.Equal(t, b, got)
		for _, c := range b.Categories() {
			expected[c] = append(expected[c], id)
		}
	}

	for c := range tbl.Categories() {
		_, ok := expected[c]
		require.True(t, ok, "orphan category %v", c)
	}

	for _, c := range probe {
		want := expected[c]
		slices.Sort(want)
		want = slices.Compact(want)
		got := bookIDs(tbl.Find(c))
		if len(want) == 0 {
			require.Empty(t, got, "category %v", c)
			require.False(t, tbl.ContainsCategory(c))
			continue
		}
		require.Equal(t, want, got, "category %v", c)
		require.Equal(t, len(want), tbl.CountCategory(c))
	}
}

func TestTable_RandomOperationsKeepInvariants(t *testing.T) {
	rng := testutil.NewRNG(4711)
	pool := rng.Books(200, 6, 12, 1.1)

	var probe []category
	for s := range 6 {
		probe = append(probe, testutil.Science(testutil.ScienceID(s)))
	}
	for a := range 12 {
		probe = append(probe, testutil.Author(testutil.AuthorID(a)))
	}

	tbl := New[bookID, category, book]()
	model := make(map[bookID]book)

	for step := range 2000 {
		b := pool[rng.Intn(len(pool))]
		if rng.Intn(3) == 0 {
			_, wantOK := model[b.ID]
			_, ok := tbl.Remove(b.ID)
			require.Equal(t, wantOK, ok)
			delete(model, b.ID)
		} else {
			err := tbl.Insert(b)
			if _, exists := model[b.ID]; exists {
				require.ErrorIs(t, err, ErrKeyCollision)
			} else {
				require.NoError(t, err)
				model[b.ID] = b
			}
		}

		if step%100 == 0 {
			checkInvariants(t, tbl, model, probe)
		}
	}
	checkInvariants(t, tbl, model, probe)
}

func BenchmarkTable_Insert(b *testing.B) {
	books := testutil.NewRNG(42).Books(b.N, 32, 512, 1.2)
	tbl := New[bookID, category, book](WithCapacity(b.N))

	b.ResetTimer()
	for i := range b.N {
		_ = tbl.Insert(books[i])
	}
}

func BenchmarkTable_FindMany(b *testing.B) {
	books := testutil.NewRNG(42).Books(10000, 32, 512, 1.2)
	tbl, err := FromSeq[bookID, category, book](slices.Values(books))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for range b.N {
		_ = tbl.FindMany(testutil.Science(0), testutil.Science(1), testutil.Author(3))
	}
}

package corpus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// countingStore wraps a Store and counts scan calls, to observe cache
// behavior from the outside.
type countingStore struct {
	Store
	scans atomic.Int64
}

func (c *countingStore) WordsOfLength(ctx context.Context, length int) ([]Word, error) {
	c.scans.Add(1)
	return c.Store.WordsOfLength(ctx, length)
}

func TestCrossingCount(t *testing.T) {
	store := seedMemStore(t, "CAT", "COT", "DOG", "PIANO")
	index := NewIndex(store)
	ctx := context.Background()

	cases := []struct {
		length int
		pos    int
		letter byte
		want   int
	}{
		{3, 0, 'C', 2},  // CAT, COT
		{3, 2, 'T', 2},  // CAT, COT
		{3, 1, 'O', 2},  // COT, DOG
		{3, 0, 'Z', 0},  // no such words
		{5, 0, 'P', 1},  // PIANO
		{3, 0, 'c', 2},  // lowercase letters normalize
		{12, 4, 'A', 0}, // length with no words at all
	}
	for _, tc := range cases {
		got, err := index.CrossingCount(ctx, tc.length, tc.pos, tc.letter)
		if err != nil {
			t.Fatalf("CrossingCount(%d,%d,%q): %v", tc.length, tc.pos, tc.letter, err)
		}
		if got != tc.want {
			t.Errorf("CrossingCount(%d,%d,%q) = %d, want %d", tc.length, tc.pos, tc.letter, got, tc.want)
		}
	}
}

func TestCrossingIndexBuildsOnce(t *testing.T) {
	counting := &countingStore{Store: seedMemStore(t, "CAT", "DOG")}
	index := NewIndex(counting)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := index.CrossingCount(ctx, 3, 0, 'C'); err != nil {
			t.Fatal(err)
		}
	}

	// one build pass scans every indexed length exactly once
	wantScans := int64(MaxWordLength - 3 + 1)
	if got := counting.scans.Load(); got != wantScans {
		t.Errorf("store scanned %d times, want %d (single build)", got, wantScans)
	}
}

func TestLengthCountCached(t *testing.T) {
	store := seedMemStore(t, "CAT", "DOG", "PIANO")
	index := NewIndex(store)
	ctx := context.Background()

	count, err := index.LengthCount(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("LengthCount(3) = %d, want 2", count)
	}

	// mutate behind the cache: stale answer until invalidated
	if _, err := store.AddWord(ctx, Word{Word: "EEL"}); err != nil {
		t.Fatal(err)
	}
	count, err = index.LengthCount(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("LengthCount(3) after mutation = %d, want stale 2", count)
	}

	index.InvalidateAll()
	count, err = index.LengthCount(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("LengthCount(3) after invalidation = %d, want 3", count)
	}
}

// racingStore mutates the corpus and invalidates the index right after
// the first store read, simulating a writer landing while a cache fill
// is in flight.
type racingStore struct {
	*MemStore
	index *Index
	word  string
	once  sync.Once
}

func (r *racingStore) mutate(ctx context.Context) {
	r.once.Do(func() {
		if _, err := r.MemStore.AddWord(ctx, Word{Word: r.word}); err == nil {
			r.index.InvalidateAll()
		}
	})
}

func (r *racingStore) WordsOfLength(ctx context.Context, length int) ([]Word, error) {
	words, err := r.MemStore.WordsOfLength(ctx, length)
	r.mutate(ctx)
	return words, err
}

func (r *racingStore) CountOfLength(ctx context.Context, length int) (int, error) {
	n, err := r.MemStore.CountOfLength(ctx, length)
	r.mutate(ctx)
	return n, err
}

func TestCrossingBuildDiscardedOnInvalidation(t *testing.T) {
	ctx := context.Background()
	racing := &racingStore{MemStore: NewMemStore(), word: "COT"}
	if _, err := racing.MemStore.AddWord(ctx, Word{Word: "CAT"}); err != nil {
		t.Fatal(err)
	}
	index := NewIndex(racing)
	racing.index = index

	// first lookup races the writer; a stale answer here is acceptable
	if _, err := index.CrossingCount(ctx, 3, 0, 'C'); err != nil {
		t.Fatal(err)
	}

	got, err := index.CrossingCount(ctx, 3, 0, 'C')
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("CrossingCount after mid-build invalidation = %d, want 2 (stale snapshot was cached)", got)
	}
}

func TestLengthCountDiscardedOnInvalidation(t *testing.T) {
	ctx := context.Background()
	racing := &racingStore{MemStore: NewMemStore(), word: "COT"}
	if _, err := racing.MemStore.AddWord(ctx, Word{Word: "CAT"}); err != nil {
		t.Fatal(err)
	}
	index := NewIndex(racing)
	racing.index = index

	if _, err := index.LengthCount(ctx, 3); err != nil {
		t.Fatal(err)
	}

	got, err := index.LengthCount(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("LengthCount after mid-fill invalidation = %d, want 2 (stale count was cached)", got)
	}
}

func TestInvalidateAllIdempotent(t *testing.T) {
	index := NewIndex(seedMemStore(t, "CAT"))
	ctx := context.Background()

	if _, err := index.CrossingCount(ctx, 3, 0, 'C'); err != nil {
		t.Fatal(err)
	}
	index.InvalidateAll()
	index.InvalidateAll()

	count, err := index.CrossingCount(ctx, 3, 0, 'C')
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("CrossingCount after double invalidation = %d, want 1", count)
	}
}

func TestIndexConcurrentReaders(t *testing.T) {
	store := seedMemStore(t, "CAT", "COT", "CUT", "DOG", "PIANO", "PLANO")
	index := NewIndex(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				got, err := index.CrossingCount(ctx, 3, 0, 'C')
				if err != nil {
					errs <- err
					return
				}
				if got != 3 {
					errs <- errors.New("cold or partial read observed")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestIndexStats(t *testing.T) {
	index := NewIndex(seedMemStore(t, "CAT"))
	stats := index.Stats()
	if stats["crossingBuilt"] != 0 {
		t.Error("index reports built before first lookup")
	}

	if _, err := index.CrossingCount(context.Background(), 3, 0, 'C'); err != nil {
		t.Fatal(err)
	}
	stats = index.Stats()
	if stats["crossingBuilt"] != 1 {
		t.Error("index does not report built after lookup")
	}
	if stats["crossingKeys"] != 3 {
		t.Errorf("crossingKeys = %d, want 3 (one per position of CAT)", stats["crossingKeys"])
	}
}

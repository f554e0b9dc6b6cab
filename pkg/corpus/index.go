package corpus

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

type crossingKey struct {
	length int
	pos    int
	letter byte
}

// Index holds the two derived caches built over a Store: the crossing
// index (length, position, letter) -> word count, and the per-length
// word counts. Both build lazily on first use and stay until
// InvalidateAll. The caches are never authoritative; they can be rebuilt
// from the store at any time.
//
// Concurrent readers are safe. A rebuild runs at most once at a time;
// readers arriving during a build wait for its result rather than
// observing a partially built cache. A build whose store pass overlapped
// an InvalidateAll still answers the callers waiting on it, but its
// snapshot is discarded instead of cached, so the next lookup rebuilds
// from the mutated store.
type Index struct {
	store Store

	mu       sync.RWMutex
	crossing map[crossingKey]int
	built    bool
	lengths  map[int]int
	gen      uint64 // bumped by InvalidateAll; guards stale cache installs

	group singleflight.Group
}

// NewIndex creates an empty index over the store. Nothing is built until
// the first lookup.
func NewIndex(store Store) *Index {
	return &Index{
		store:   store,
		lengths: make(map[int]int),
	}
}

// CrossingCount returns how many words of the given length carry letter
// at position, building the crossing index on first use.
func (ix *Index) CrossingCount(ctx context.Context, length, pos int, letter byte) (int, error) {
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	key := crossingKey{length: length, pos: pos, letter: letter}

	ix.mu.RLock()
	if ix.built {
		count := ix.crossing[key]
		ix.mu.RUnlock()
		return count, nil
	}
	ix.mu.RUnlock()

	v, err, _ := ix.group.Do("crossing", func() (any, error) {
		return ix.buildCrossing(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(map[crossingKey]int)[key], nil
}

// buildCrossing makes one pass over every word of length >= 3 and counts
// each (length, position, letter) triple it realizes. The snapshot is
// only cached when no invalidation landed during the store pass.
func (ix *Index) buildCrossing(ctx context.Context) (map[crossingKey]int, error) {
	ix.mu.RLock()
	if ix.built {
		crossing := ix.crossing
		ix.mu.RUnlock()
		return crossing, nil
	}
	startGen := ix.gen
	ix.mu.RUnlock()

	crossing := make(map[crossingKey]int)
	total := 0
	for length := 3; length <= MaxWordLength; length++ {
		words, err := ix.store.WordsOfLength(ctx, length)
		if err != nil {
			return nil, fmt.Errorf("build crossing index: %w", err)
		}
		for _, w := range words {
			for pos := 0; pos < len(w.Word); pos++ {
				crossing[crossingKey{length: length, pos: pos, letter: w.Word[pos]}]++
			}
			total++
		}
	}
	log.Debugf("Built crossing index: %d words, %d keys", total, len(crossing))

	ix.mu.Lock()
	if ix.gen == startGen {
		ix.crossing = crossing
		ix.built = true
	} else {
		log.Debug("Discarding crossing index built across an invalidation")
	}
	ix.mu.Unlock()
	return crossing, nil
}

// LengthCount returns the number of words of exactly the given length,
// caching the store's answer per length.
func (ix *Index) LengthCount(ctx context.Context, length int) (int, error) {
	ix.mu.RLock()
	count, ok := ix.lengths[length]
	ix.mu.RUnlock()
	if ok {
		return count, nil
	}

	v, err, _ := ix.group.Do("length:"+strconv.Itoa(length), func() (any, error) {
		ix.mu.RLock()
		startGen := ix.gen
		ix.mu.RUnlock()

		n, err := ix.store.CountOfLength(ctx, length)
		if err != nil {
			return 0, err
		}
		ix.mu.Lock()
		if ix.gen == startGen {
			ix.lengths[length] = n
		}
		ix.mu.Unlock()
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// InvalidateAll drops both caches. This is the only supported
// invalidation granularity; call it after any corpus mutation that could
// change matching results. Idempotent.
func (ix *Index) InvalidateAll() {
	ix.mu.Lock()
	ix.crossing = nil
	ix.built = false
	ix.lengths = make(map[int]int)
	ix.gen++
	ix.mu.Unlock()
	log.Debug("Corpus index invalidated")
}

// Stats reports cache occupancy.
func (ix *Index) Stats() map[string]int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	built := 0
	if ix.built {
		built = 1
	}
	return map[string]int{
		"crossingBuilt": built,
		"crossingKeys":  len(ix.crossing),
		"lengthsCached": len(ix.lengths),
		"maxIndexedLen": MaxWordLength,
	}
}

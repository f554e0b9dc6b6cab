package corpus

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"
)

// MemStore is an in-memory Mutable store. It backs the seed-list CLI
// mode and tests; iteration order for WordsOfLength is insertion order.
type MemStore struct {
	mu         sync.RWMutex
	byID       map[int64]Word
	byLen      map[int][]int64
	clues      map[int64][]Clue
	trie       *patricia.Trie // uppercase word -> id
	nextID     int64
	nextClueID int64
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		byID:  make(map[int64]Word),
		byLen: make(map[int][]int64),
		clues: make(map[int64][]Clue),
		trie:  patricia.NewTrie(),
	}
}

func (m *MemStore) WordsOfLength(ctx context.Context, length int) ([]Word, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.byLen[length]
	words := make([]Word, 0, len(ids))
	for _, id := range ids {
		words = append(words, m.byID[id])
	}
	return words, nil
}

func (m *MemStore) WordByID(ctx context.Context, id int64) (Word, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.byID[id]
	if !ok {
		return Word{}, fmt.Errorf("word %d: %w", id, ErrNotFound)
	}
	return w, nil
}

func (m *MemStore) WordByText(ctx context.Context, word string) (Word, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if item := m.trie.Get(patricia.Prefix(NormalizeWord(word))); item != nil {
		return m.byID[item.(int64)], nil
	}
	return Word{}, fmt.Errorf("word %q: %w", word, ErrNotFound)
}

func (m *MemStore) CluesOf(ctx context.Context, wordID int64) ([]Clue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.byID[wordID]; !ok {
		return nil, fmt.Errorf("word %d: %w", wordID, ErrNotFound)
	}
	return append([]Clue(nil), m.clues[wordID]...), nil
}

func (m *MemStore) CountOfLength(ctx context.Context, length int) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byLen[length]), nil
}

func (m *MemStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID), nil
}

// AddWord stores a new word. The ID field of the argument is ignored.
func (m *MemStore) AddWord(ctx context.Context, w Word) (Word, error) {
	w.Word = NormalizeWord(w.Word)
	if w.Word == "" {
		return Word{}, fmt.Errorf("%w: empty word", ErrNotFound)
	}
	w.Length = len(w.Word)

	m.mu.Lock()
	defer m.mu.Unlock()
	key := patricia.Prefix(w.Word)
	if m.trie.Get(key) != nil {
		return Word{}, fmt.Errorf("word %q: %w", w.Word, ErrExists)
	}
	m.nextID++
	w.ID = m.nextID
	m.byID[w.ID] = w
	m.byLen[w.Length] = append(m.byLen[w.Length], w.ID)
	m.trie.Insert(key, w.ID)
	return w, nil
}

// UpdateWord replaces the stored word with the same ID. The word text
// itself is immutable here; delete and re-add to respell.
func (m *MemStore) UpdateWord(ctx context.Context, w Word) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.byID[w.ID]
	if !ok {
		return fmt.Errorf("word %d: %w", w.ID, ErrNotFound)
	}
	w.Word = old.Word
	w.Length = old.Length
	m.byID[w.ID] = w
	return nil
}

func (m *MemStore) DeleteWord(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("word %d: %w", id, ErrNotFound)
	}
	delete(m.byID, id)
	delete(m.clues, id)
	m.trie.Delete(patricia.Prefix(w.Word))
	ids := m.byLen[w.Length]
	for i, candidate := range ids {
		if candidate == id {
			m.byLen[w.Length] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemStore) AddClue(ctx context.Context, c Clue) (Clue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[c.WordID]; !ok {
		return Clue{}, fmt.Errorf("word %d: %w", c.WordID, ErrNotFound)
	}
	m.nextClueID++
	c.ID = m.nextClueID
	m.clues[c.WordID] = append(m.clues[c.WordID], c)
	return c, nil
}

func (m *MemStore) DeleteClue(ctx context.Context, wordID, clueID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clues := m.clues[wordID]
	for i, c := range clues {
		if c.ID == clueID {
			m.clues[wordID] = append(clues[:i], clues[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("clue %d: %w", clueID, ErrNotFound)
}

// SearchPrefix walks the trie subtree under prefix and returns up to
// limit words, in trie order.
func (m *MemStore) SearchPrefix(ctx context.Context, prefix string, limit int) ([]Word, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	m.mu.RLock()
	defer m.mu.RUnlock()

	var words []Word
	err := m.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		if limit > 0 && len(words) >= limit {
			return nil
		}
		words = append(words, m.byID[item.(int64)])
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("prefix search: %w", err)
	}
	return words, nil
}

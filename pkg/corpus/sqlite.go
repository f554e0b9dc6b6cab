package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Schema for the answers and clues tables. SQLStore.Init applies it.
const Schema = `
CREATE TABLE IF NOT EXISTS answers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	word TEXT NOT NULL UNIQUE,
	display TEXT NOT NULL DEFAULT '',
	length INTEGER NOT NULL,
	score INTEGER NOT NULL DEFAULT 0,
	source TEXT NOT NULL DEFAULT '',
	is_phrase INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_answers_length ON answers(length);

CREATE TABLE IF NOT EXISTS clues (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	answer_id INTEGER NOT NULL REFERENCES answers(id) ON DELETE CASCADE,
	clue_text TEXT NOT NULL,
	difficulty INTEGER NOT NULL DEFAULT 3,
	tags TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_clues_answer ON clues(answer_id);
`

// SQLStore is the sqlite-backed Mutable store.
type SQLStore struct {
	db *sql.DB
}

// OpenSQL opens (or creates) the sqlite database at path and applies the
// schema.
func OpenSQL(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, ErrUnavailable)
	}
	// The matcher issues concurrent reads; sqlite serializes writes.
	db.SetMaxOpenConns(1)
	s := &SQLStore{db: db}
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the tables if they do not exist.
func (s *SQLStore) Init() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("init schema: %v: %w", err, ErrUnavailable)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) WordsOfLength(ctx context.Context, length int) ([]Word, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, word, display, length, score, source, is_phrase FROM answers WHERE length = ? ORDER BY id`,
		length)
	if err != nil {
		return nil, fmt.Errorf("words of length %d: %v: %w", length, err, ErrUnavailable)
	}
	defer rows.Close()

	var words []Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("words of length %d: %v: %w", length, err, ErrUnavailable)
	}
	return words, nil
}

func (s *SQLStore) WordByID(ctx context.Context, id int64) (Word, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, word, display, length, score, source, is_phrase FROM answers WHERE id = ?`, id)
	w, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Word{}, fmt.Errorf("word %d: %w", id, ErrNotFound)
	}
	return w, err
}

func (s *SQLStore) WordByText(ctx context.Context, word string) (Word, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, word, display, length, score, source, is_phrase FROM answers WHERE word = ?`,
		NormalizeWord(word))
	w, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Word{}, fmt.Errorf("word %q: %w", word, ErrNotFound)
	}
	return w, err
}

func (s *SQLStore) CluesOf(ctx context.Context, wordID int64) ([]Clue, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, answer_id, clue_text, difficulty, tags FROM clues WHERE answer_id = ? ORDER BY id`,
		wordID)
	if err != nil {
		return nil, fmt.Errorf("clues of %d: %v: %w", wordID, err, ErrUnavailable)
	}
	defer rows.Close()

	var clues []Clue
	for rows.Next() {
		var c Clue
		if err := rows.Scan(&c.ID, &c.WordID, &c.Text, &c.Difficulty, &c.Tags); err != nil {
			return nil, fmt.Errorf("clues of %d: %v: %w", wordID, err, ErrUnavailable)
		}
		clues = append(clues, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clues of %d: %v: %w", wordID, err, ErrUnavailable)
	}
	return clues, nil
}

func (s *SQLStore) CountOfLength(ctx context.Context, length int) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM answers WHERE length = ?`, length).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count of length %d: %v: %w", length, err, ErrUnavailable)
	}
	return count, nil
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM answers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count: %v: %w", err, ErrUnavailable)
	}
	return count, nil
}

func (s *SQLStore) AddWord(ctx context.Context, w Word) (Word, error) {
	w.Word = NormalizeWord(w.Word)
	w.Length = len(w.Word)
	if _, err := s.WordByText(ctx, w.Word); err == nil {
		return Word{}, fmt.Errorf("word %q: %w", w.Word, ErrExists)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO answers (word, display, length, score, source, is_phrase) VALUES (?, ?, ?, ?, ?, ?)`,
		w.Word, w.Display, w.Length, w.Score, JoinSources(w.Sources), boolInt(w.IsPhrase))
	if err != nil {
		return Word{}, fmt.Errorf("add word %q: %v: %w", w.Word, err, ErrUnavailable)
	}
	w.ID, err = res.LastInsertId()
	if err != nil {
		return Word{}, fmt.Errorf("add word %q: %v: %w", w.Word, err, ErrUnavailable)
	}
	return w, nil
}

func (s *SQLStore) UpdateWord(ctx context.Context, w Word) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE answers SET display = ?, score = ?, source = ?, is_phrase = ? WHERE id = ?`,
		w.Display, w.Score, JoinSources(w.Sources), boolInt(w.IsPhrase), w.ID)
	if err != nil {
		return fmt.Errorf("update word %d: %v: %w", w.ID, err, ErrUnavailable)
	}
	return requireRow(res, w.ID)
}

func (s *SQLStore) DeleteWord(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM clues WHERE answer_id = ?`, id); err != nil {
		return fmt.Errorf("delete word %d: %v: %w", id, err, ErrUnavailable)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete word %d: %v: %w", id, err, ErrUnavailable)
	}
	return requireRow(res, id)
}

func (s *SQLStore) AddClue(ctx context.Context, c Clue) (Clue, error) {
	if _, err := s.WordByID(ctx, c.WordID); err != nil {
		return Clue{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO clues (answer_id, clue_text, difficulty, tags) VALUES (?, ?, ?, ?)`,
		c.WordID, c.Text, c.Difficulty, c.Tags)
	if err != nil {
		return Clue{}, fmt.Errorf("add clue: %v: %w", err, ErrUnavailable)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return Clue{}, fmt.Errorf("add clue: %v: %w", err, ErrUnavailable)
	}
	return c, nil
}

func (s *SQLStore) DeleteClue(ctx context.Context, wordID, clueID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clues WHERE id = ? AND answer_id = ?`, clueID, wordID)
	if err != nil {
		return fmt.Errorf("delete clue %d: %v: %w", clueID, err, ErrUnavailable)
	}
	return requireRow(res, clueID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (Word, error) {
	var w Word
	var source string
	var phrase int
	err := row.Scan(&w.ID, &w.Word, &w.Display, &w.Length, &w.Score, &source, &phrase)
	if errors.Is(err, sql.ErrNoRows) {
		return Word{}, err
	}
	if err != nil {
		return Word{}, fmt.Errorf("scan word: %v: %w", err, ErrUnavailable)
	}
	w.Sources = SplitSources(source)
	w.IsPhrase = phrase != 0
	return w, nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %v: %w", err, ErrUnavailable)
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

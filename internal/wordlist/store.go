package wordlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// BuiltinList names the answer list loaded by the words package.
const BuiltinList = "answers"

var (
	ErrListNotFound = errors.New("word list not found")
	ErrReserved     = errors.New("list name is reserved")
	ErrBadName      = errors.New("list name must be 1-40 chars of a-z, 0-9, - or _")
)

// ListInfo is a listing entry.
type ListInfo struct {
	Name      string `json:"name"`
	Count     int    `json:"count"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	Builtin   bool   `json:"builtin,omitempty"`
}

// Store persists named word lists in SQLite.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Import replaces the contents of list name with list, in order.
// Words are normalized first; the number stored is returned.
func (s *Store) Import(ctx context.Context, name string, list []string) (int, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	list = words.Normalize(list)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO word_lists(name) VALUES(?)
		 ON CONFLICT(name) DO UPDATE SET updated_at=strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`, name,
	); err != nil {
		return 0, fmt.Errorf("upsert list %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM list_words WHERE list_name=?`, name); err != nil {
		return 0, fmt.Errorf("clear list %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO list_words(list_name, position, word) VALUES(?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for i, w := range list {
		if _, err := stmt.ExecContext(ctx, name, i, w); err != nil {
			return 0, fmt.Errorf("insert %q: %w", w, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(list), nil
}

// Words returns the stored words of list name in import order.
func (s *Store) Words(ctx context.Context, name string) ([]string, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM word_lists WHERE name=?`, name).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrListNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT word FROM list_words WHERE list_name=? ORDER BY position ASC`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Load returns list name as a candidate dictionary.
func (s *Store) Load(ctx context.Context, name string) (*solver.Dictionary, error) {
	list, err := s.Words(ctx, name)
	if err != nil {
		return nil, err
	}
	return solver.FromList(list)
}

// Lists returns every stored list with its size, ordered by name.
func (s *Store) Lists(ctx context.Context) ([]ListInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT l.name, COUNT(w.word), l.updated_at
        FROM word_lists l
        LEFT JOIN list_words w ON w.list_name = l.name
        GROUP BY l.name
        ORDER BY l.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ListInfo{}
	for rows.Next() {
		var li ListInfo
		if err := rows.Scan(&li.Name, &li.Count, &li.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, li)
	}
	return out, rows.Err()
}

// Delete removes list name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM word_lists WHERE name=?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrListNotFound, name)
	}
	return nil
}

func checkName(name string) error {
	if name == BuiltinList {
		return ErrReserved
	}
	if len(name) == 0 || len(name) > 40 {
		return ErrBadName
	}
	for _, r := range name {
		if !(r == '_' || r == '-' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return ErrBadName
		}
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Curated list names.
const (
	ListScamPhrases        = "scam_phrases"
	ListFreeEmailDomains   = "free_email_domains"
	ListDisposablePatterns = "disposable_patterns"
)

// ErrListNotFound is returned when a named list does not exist.
var ErrListNotFound = errors.New("signal list not found")

// SignalList is a versioned curated list. The version increments on every
// update so consumers can tell which revision produced a result.
type SignalList struct {
	Name      string    `db:"name"       json:"name"`
	Version   int       `db:"version"    json:"version"`
	Entries   []string  `db:"-"          json:"entries"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type signalListRow struct {
	Name      string    `db:"name"`
	Version   int       `db:"version"`
	Entries   string    `db:"entries"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ListsRepository handles database operations for the curated signal lists.
type ListsRepository struct {
	db *sqlx.DB
}

// NewListsRepository creates a new lists repository.
func NewListsRepository(db *sqlx.DB) *ListsRepository {
	return &ListsRepository{db: db}
}

// Get retrieves a list by name.
func (r *ListsRepository) Get(ctx context.Context, name string) (*SignalList, error) {
	var row signalListRow
	err := r.db.GetContext(ctx, &row,
		`SELECT name, version, entries, updated_at FROM signal_lists WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrListNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get signal list %s: %w", name, err)
	}
	return row.toList()
}

// List retrieves all lists.
func (r *ListsRepository) List(ctx context.Context) ([]*SignalList, error) {
	var rows []signalListRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT name, version, entries, updated_at FROM signal_lists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list signal lists: %w", err)
	}

	lists := make([]*SignalList, 0, len(rows))
	for i := range rows {
		l, err := rows[i].toList()
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, nil
}

// Update replaces a list's entries and bumps its version. Returns the stored
// list with the new version.
func (r *ListsRepository) Update(ctx context.Context, name string, entries []string) (*SignalList, error) {
	encoded, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode entries: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE signal_lists SET version = version + 1, entries = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?`,
		string(encoded), name)
	if err != nil {
		return nil, fmt.Errorf("update signal list %s: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update signal list %s: %w", name, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrListNotFound, name)
	}

	return r.Get(ctx, name)
}

// Seed inserts a list at version 1 if it does not exist yet. Existing lists
// are left untouched so operator edits survive restarts.
func (r *ListsRepository) Seed(ctx context.Context, name string, entries []string) error {
	encoded, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO signal_lists (name, version, entries) VALUES (?, 1, ?)
		 ON CONFLICT (name) DO NOTHING`,
		name, string(encoded))
	if err != nil {
		return fmt.Errorf("seed signal list %s: %w", name, err)
	}
	return nil
}

func (row *signalListRow) toList() (*SignalList, error) {
	var entries []string
	if err := json.Unmarshal([]byte(row.Entries), &entries); err != nil {
		return nil, fmt.Errorf("decode entries for %s: %w", row.Name, err)
	}
	return &SignalList{
		Name:      row.Name,
		Version:   row.Version,
		Entries:   entries,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS actions (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL,
	kind       TEXT NOT NULL,
	payload    TEXT,
	source_id  TEXT,
	origin     TEXT,
	phase      TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`
// #endregion schema

// #region phases

// Phases an action is journaled under.
const (
	PhaseHandled    = "handled"    // action reached the middleware's pre-reducer phase
	PhaseDispatched = "dispatched" // action was emitted toward the store
)

// #endregion phases

// #region entry

// Entry is one journaled action.
type Entry struct {
	Seq       int64
	ID        string
	Kind      string
	Payload   string
	SourceID  string
	Origin    string
	Phase     string
	CreatedAt time.Time
}

// #endregion entry

// #region store

// Store persists the action journal in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region append

// Append writes one entry. A missing ID or timestamp is filled in.
func (s *Store) Append(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO actions (id, kind, payload, source_id, origin, phase, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.Kind,
		nullIfEmpty(e.Payload),
		nullIfEmpty(e.SourceID),
		nullIfEmpty(e.Origin),
		e.Phase,
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append action: %w", err)
	}
	return nil
}

// #endregion append

// #region list

// List returns entries in recording order. phase filters to one phase when
// non-empty; last limits to the N most recent entries when positive.
func (s *Store) List(phase string, last int) ([]Entry, error) {
	query := `SELECT seq, id, kind, COALESCE(payload, ''), COALESCE(source_id, ''), COALESCE(origin, ''), phase, created_at FROM actions`
	args := []interface{}{}
	if phase != "" {
		query += ` WHERE phase = ?`
		args = append(args, phase)
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.Seq, &e.ID, &e.Kind, &e.Payload, &e.SourceID, &e.Origin, &e.Phase, &created); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}

	if last > 0 && len(entries) > last {
		entries = entries[len(entries)-last:]
	}
	return entries, nil
}

// Count returns the number of journaled entries for one phase ("" = all).
func (s *Store) Count(phase string) (int, error) {
	query := `SELECT COUNT(*) FROM actions`
	args := []interface{}{}
	if phase != "" {
		query += ` WHERE phase = ?`
		args = append(args, phase)
	}
	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count actions: %w", err)
	}
	return n, nil
}

// #endregion list

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers

package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"roictl/internal/modules/journal/domain"
	journalout "roictl/internal/modules/journal/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (journalout.Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// the reconnect goroutine and the console both append
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS journal (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  kind TEXT NOT NULL,
  detail TEXT NOT NULL,
  payload TEXT,
  session_id TEXT,
  at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS journal_kind_id ON journal(kind, id);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create journal table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, entry domain.Entry) (int64, error) {
	const stmt = `INSERT INTO journal (kind, detail, payload, session_id, at) VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, stmt,
		string(entry.Kind),
		entry.Detail,
		entry.Payload,
		entry.SessionID,
		entry.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("append journal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("journal entry id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Tail(ctx context.Context, kind domain.Kind, limit int) ([]domain.Entry, error) {
	query := `SELECT id, kind, detail, COALESCE(payload, ''), COALESCE(session_id, ''), at FROM journal`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	out := []domain.Entry{}
	for rows.Next() {
		var (
			e    domain.Entry
			k    string
			rawT string
		)
		if err := rows.Scan(&e.ID, &k, &e.Detail, &e.Payload, &e.SessionID, &rawT); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Kind = domain.Kind(k)
		at, err := time.Parse(time.RFC3339Nano, rawT)
		if err != nil {
			return nil, fmt.Errorf("parse journal time: %w", err)
		}
		e.At = at
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

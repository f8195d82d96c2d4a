package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteStore keeps every note as a row of one SQLite database.
type sqliteStore struct {
	db *sql.DB
}

func openSQLiteStore(ctx context.Context, path string) (*sqliteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteNotes(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

func migrateSQLiteNotes(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS notes (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		updated_at_unixms INTEGER NOT NULL
	);`)
	return err
}

func (s *sqliteStore) read(ctx context.Context, note string) (string, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM notes WHERE name = ?`, note).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return body, err
}

func (s *sqliteStore) write(ctx context.Context, note, text string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO notes(name, body, updated_at_unixms) VALUES(?, ?, ?)`,
		note, text, time.Now().UTC().UnixMilli())
	return err
}

func (s *sqliteStore) list(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM notes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		notes = append(notes, name)
	}
	return notes, rows.Err()
}

func (s *sqliteStore) close() error {
	return s.db.Close()
}

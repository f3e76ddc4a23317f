// Package sqlite persists registry documents in a single-file SQLite
// database: one row per bucket, payload stored as a JSON blob. The file is
// the local, single-device equivalent of a browser key-value store; nothing
// here coordinates across processes.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/usha-institute/exam-registry/internal/storage"
)

type Store struct {
	db   *sql.DB
	path string
}

var _ storage.Store = (*Store)(nil)

// NewStore opens (creating if needed) the database at path and ensures the
// state table exists.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "exam-registry.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Load(ctx context.Context, bucket storage.Bucket) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM state WHERE bucket = ?`, string(bucket)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &storage.Error{Op: "load", Bucket: bucket, Err: err}
	}
	return payload, nil
}

func (s *Store) Save(ctx context.Context, bucket storage.Bucket, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state(bucket, payload) VALUES(?, ?)
		 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
		string(bucket), payload)
	if err != nil {
		return &storage.Error{Op: "save", Bucket: bucket, Err: err}
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path the store was opened with.
func (s *Store) Path() string { return s.path }

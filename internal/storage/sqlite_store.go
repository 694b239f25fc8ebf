package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

// SQLiteBlobStore keeps the blob in a single row of the kv table.
type SQLiteBlobStore struct {
	db  *sql.DB
	key string
	now func() time.Time
}

func NewSQLiteBlobStore(db *sql.DB, key string) (*SQLiteBlobStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = StateKey
	}
	return &SQLiteBlobStore{db: db, key: key, now: time.Now}, nil
}

// OpenSQLite opens path, applies pending migrations and returns a store for StateKey.
func OpenSQLite(path string) (*SQLiteBlobStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store, err := NewSQLiteBlobStore(db, StateKey)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteBlobStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteBlobStore) Get(ctx context.Context) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}
	return value, nil
}

func (s *SQLiteBlobStore) Set(ctx context.Context, blob []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, revision, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			revision = kv.revision + 1,
			updated_at = excluded.updated_at`,
		s.key, blob, mustTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", s.key, err)
	}
	return nil
}

// Revision reports how many times the blob has been written and when it last changed.
// A missing row yields 0 and a nil time.
func (s *SQLiteBlobStore) Revision(ctx context.Context) (int64, *time.Time, error) {
	var revision int64
	var updated string
	err := s.db.QueryRowContext(ctx, `SELECT revision, updated_at FROM kv WHERE key = ?`, s.key).Scan(&revision, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, nil
		}
		return 0, nil, err
	}
	updatedAt, err := parseNullableTime(sql.NullString{String: updated, Valid: true})
	if err != nil {
		return 0, nil, err
	}
	return revision, updatedAt, nil
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil, nil
	}
	t, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, fmt.Errorf("parse time %q: %w", v.String, err)
	}
	return &t, nil
}

package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// KV is the key-value storage collaborator behind the anime list stores.
// Values are opaque strings; callers own their encoding.
type KV interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

const kvSchema = `CREATE TABLE IF NOT EXISTS kv_entries (
	name    VARCHAR PRIMARY KEY,
	payload VARCHAR NOT NULL
)`

// sqlKV implements KV on any database/sql driver that understands
// INSERT OR REPLACE (DuckDB and SQLite both do).
type sqlKV struct {
	db *sql.DB
}

func newSQLKV(db *sql.DB) (*sqlKV, error) {
	if _, err := db.Exec(kvSchema); err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &sqlKV{db: db}, nil
}

func (s *sqlKV) Get(ctx context.Context, key string) (string, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM kv_entries WHERE name = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

func (s *sqlKV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO kv_entries (name, payload) VALUES (?, ?)`, key, value)
	return err
}

func (s *sqlKV) Close() error {
	return s.db.Close()
}

// MemoryKV keeps values in process memory. Nothing survives Close.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}

package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteKV is the pure-Go KV backend, used where cgo is unavailable.
type SQLiteKV struct {
	*sqlKV
}

func NewSQLiteKV(path string) (*SQLiteKV, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)
	kv, err := newSQLKV(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteKV{sqlKV: kv}, nil
}

// OpenKV selects a backend by driver name: "duckdb", "sqlite" or "memory".
func OpenKV(driver, path string) (KV, error) {
	switch driver {
	case "", "duckdb":
		return NewDuckDBKV(path)
	case "sqlite":
		return NewSQLiteKV(path)
	case "memory":
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}

package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// InitDuckDB opens (creating if needed) the DuckDB file at path.
func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return sql.Open("duckdb", path)
}

// DuckDBKV is the default persistent KV backend.
type DuckDBKV struct {
	*sqlKV
}

func NewDuckDBKV(path string) (*DuckDBKV, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	kv, err := newSQLKV(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &DuckDBKV{sqlKV: kv}, nil
}

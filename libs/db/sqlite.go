package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteDB opens (creating if needed) a SQLite database file and validates the connection.
// SQLite allows a single writer, so the pool is capped at one connection.
func NewSQLiteDB(ctx context.Context, path string) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("db: empty sqlite path")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("db: create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("db: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := ping(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: ping sqlite: %w", err)
	}

	return db, nil
}

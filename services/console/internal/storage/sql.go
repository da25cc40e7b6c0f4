package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects placeholder syntax for SQLStore.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

const createTable = `
	CREATE TABLE IF NOT EXISTS console_storage (
		entry_key  TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

// SQLStore keeps entries in the console_storage table of a SQLite or Postgres database.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore wraps db and ensures the table exists.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("storage: db is nil")
	}
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return nil, fmt.Errorf("storage: create table: %w", err)
	}
	return &SQLStore{db: db, dialect: dialect}, nil
}

// rebind rewrites ? placeholders into $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT value FROM console_storage WHERE entry_key = ?`
	var value string
	err := s.db.QueryRowContext(ctx, s.rebind(query), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLStore) Put(ctx context.Context, entries ...Entry) error {
	const query = `
		INSERT INTO console_storage (entry_key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (entry_key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, e := range entries {
			if _, err := tx.ExecContext(ctx, s.rebind(query), e.Key, e.Value); err != nil {
				return fmt.Errorf("storage: put %s: %w", e.Key, err)
			}
		}
		return nil
	})
}

func (s *SQLStore) Delete(ctx context.Context, keys ...string) error {
	const query = `DELETE FROM console_storage WHERE entry_key = ?`
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, s.rebind(query), k); err != nil {
				return fmt.Errorf("storage: delete %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

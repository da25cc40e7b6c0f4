package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Pool bounds a *sql.DB connection pool.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// SessionPool suits the console's session table: a handful of reads and writes per login.
var SessionPool = Pool{MaxOpen: 4, MaxIdle: 1, MaxLifetime: time.Hour, MaxIdleTime: 10 * time.Minute}

const pingTimeout = 5 * time.Second

func (p Pool) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.MaxOpen)
	db.SetMaxIdleConns(p.MaxIdle)
	db.SetConnMaxLifetime(p.MaxLifetime)
	db.SetConnMaxIdleTime(p.MaxIdleTime)
}

// NewPostgresDB opens a pgx/stdlib backed pool and verifies it answers a ping.
func NewPostgresDB(ctx context.Context, dsn string, pool Pool) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("db: empty DSN")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open postgres: %w", err)
	}
	pool.apply(db)

	if err := ping(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: ping postgres: %w", err)
	}
	return db, nil
}

func ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return db.PingContext(ctx)
}

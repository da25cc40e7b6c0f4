package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewSQLiteDBCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "console.db")

	sqlDB, err := NewSQLiteDB(context.Background(), path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer sqlDB.Close()

	if _, err := sqlDB.Exec(`CREATE TABLE t (v TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("max open connections = %d, want 1", got)
	}
}

func TestEmptyDSNRejected(t *testing.T) {
	ctx := context.Background()
	if _, err := NewSQLiteDB(ctx, "  "); err == nil {
		t.Fatalf("expected error for empty sqlite path")
	}
	if _, err := NewPostgresDB(ctx, "", SessionPool); err == nil {
		t.Fatalf("expected error for empty postgres dsn")
	}
}

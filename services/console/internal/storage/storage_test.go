package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libdb "stationdesk/libs/db"
	libredis "stationdesk/libs/redis"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "user")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, Entry{Key: "user", Value: `{"_id":"1"}`}, Entry{Key: "token", Value: "tok"}))

	v, found, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok", v)

	require.NoError(t, store.Put(ctx, Entry{Key: "token", Value: "tok2"}))
	v, _, err = store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "tok2", v)

	require.NoError(t, store.Delete(ctx, "user", "token", "never-set"))
	for _, k := range []string{"user", "token"} {
		_, found, err := store.Get(ctx, k)
		require.NoError(t, err)
		assert.False(t, found, k)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, store)

	require.NoError(t, store.Put(context.Background(), Entry{Key: "token", Value: "tok"}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, found, err := reopened.Get(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok", v)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "user")
	assert.Error(t, err)

	require.NoError(t, store.Delete(context.Background(), "user", "token"))
	_, found, err := store.Get(context.Background(), "user")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStore(t *testing.T) {
	sqlDB, err := libdb.NewSQLiteDB(context.Background(), filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)

	store, err := NewSQLStore(context.Background(), sqlDB, DialectSQLite)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestPostgresStoreQueries(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS console_storage")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	store, err := NewSQLStore(context.Background(), sqlDB, DialectPostgres)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1, $2, CURRENT_TIMESTAMP)")).
		WithArgs("user", "{}").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1, $2, CURRENT_TIMESTAMP)")).
		WithArgs("token", "tok").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, store.Put(context.Background(), Entry{Key: "user", Value: "{}"}, Entry{Key: "token", Value: "tok"}))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM console_storage WHERE entry_key = $1")).
		WithArgs("token").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("tok"))
	v, found, err := store.Get(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok", v)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM console_storage WHERE entry_key = $1")).
		WithArgs("user").WillReturnError(assert.AnError)
	mock.ExpectRollback()
	assert.Error(t, store.Delete(context.Background(), "user", "token"))

	mock.ExpectClose()
	require.NoError(t, store.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client, err := libredis.NewRedisClient(context.Background(), libredis.Options{Addr: addr})
	require.NoError(t, err)
	store := NewRedisStore(client, "stationdesk-test-"+time.Now().Format("150405.000"), time.Minute)
	defer store.Close()

	exerciseStore(t, store)
}

func TestValidateDriver(t *testing.T) {
	for _, name := range []string{"memory", "FILE", " redis ", "sqlite", "postgres"} {
		_, err := ValidateDriver(name)
		assert.NoError(t, err, name)
	}
	d, err := ValidateDriver("")
	require.NoError(t, err)
	assert.Equal(t, DriverFile, d)

	_, err = ValidateDriver("localStorage")
	assert.Error(t, err)
}

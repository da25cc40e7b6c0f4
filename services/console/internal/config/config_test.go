package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationdesk/services/console/internal/storage"
)

// isolate keeps a stray .env or CONFIG_FILE from leaking into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DOTENV_FILE", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, storage.DriverFile, cfg.Storage.Driver)
	assert.Equal(t, 10*time.Second, cfg.APITimeout())
	assert.Equal(t, 3*time.Second, cfg.AutoClose())
	assert.False(t, cfg.Stations.MergeWrites, "writes reach the collection only through a fetch")
	assert.False(t, cfg.AllowsAnyOrigin())
	assert.Equal(t, []string{"http://localhost:8080", "http://127.0.0.1:8080"}, cfg.CORS.AllowedOrigins)
	assert.Zero(t, cfg.RedisTTL())
}

func TestLoadFromYAMLAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "console.yaml")
	body := `
http:
  port: ":9090"
api:
  baseUrl: http://api.internal:5000/api
storage:
  driver: SQLite
  sqlitePath: /var/lib/console.db
stations:
  mergeWrites: true
cors:
  allowedOrigins: ["http://localhost:5173"]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("CONSOLE_NOTIFICATIONS_AUTOCLOSE_MS", "1500")
	t.Setenv("CONSOLE_API_TIMEOUT", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddress())
	assert.Equal(t, "http://api.internal:5000/api", cfg.API.BaseURL)
	assert.Equal(t, storage.DriverSQLite, cfg.Storage.Driver)
	assert.True(t, cfg.Stations.MergeWrites)
	assert.False(t, cfg.AllowsAnyOrigin())
	assert.Equal(t, 1500*time.Millisecond, cfg.AutoClose())
	assert.Equal(t, 2*time.Second, cfg.APITimeout())
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"relative base url": {"CONSOLE_API_BASE_URL": "/api"},
		"unknown driver":    {"CONSOLE_STORAGE_DRIVER": "etcd"},
		"redis without addr": {
			"CONSOLE_STORAGE_DRIVER": "redis",
		},
		"postgres without dsn": {
			"CONSOLE_STORAGE_DRIVER": "postgres",
		},
		"file without path": {
			"CONSOLE_STORAGE_FILE": " ",
		},
		"bad bool": {"CONSOLE_STATIONS_MERGE_WRITES": "maybe"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

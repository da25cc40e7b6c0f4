package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	libconfig "stationdesk/libs/config"
	"stationdesk/services/console/internal/storage"
)

// Config represents console configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"CONSOLE_HTTP_PORT"`
	} `yaml:"http"`
	API struct {
		BaseURL        string `yaml:"baseUrl" env:"CONSOLE_API_BASE_URL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds" env:"CONSOLE_API_TIMEOUT"`
	} `yaml:"api"`
	Storage struct {
		Driver      string `yaml:"driver" env:"CONSOLE_STORAGE_DRIVER"`
		FilePath    string `yaml:"filePath" env:"CONSOLE_STORAGE_FILE"`
		SQLitePath  string `yaml:"sqlitePath" env:"CONSOLE_STORAGE_SQLITE_PATH"`
		PostgresDSN string `yaml:"postgresDsn" env:"CONSOLE_STORAGE_POSTGRES_DSN"`
		Redis       struct {
			Addr       string `yaml:"addr" env:"CONSOLE_REDIS_ADDR"`
			Password   string `yaml:"password" env:"CONSOLE_REDIS_PASSWORD"`
			DB         int    `yaml:"db" env:"CONSOLE_REDIS_DB"`
			Namespace  string `yaml:"namespace" env:"CONSOLE_REDIS_NAMESPACE"`
			TTLMinutes int    `yaml:"ttlMinutes" env:"CONSOLE_REDIS_TTL_MINUTES"`
		} `yaml:"redis"`
	} `yaml:"storage"`
	Notifications struct {
		AutoCloseMillis int `yaml:"autoCloseMillis" env:"CONSOLE_NOTIFICATIONS_AUTOCLOSE_MS"`
	} `yaml:"notifications"`
	Stations struct {
		MergeWrites bool `yaml:"mergeWrites" env:"CONSOLE_STATIONS_MERGE_WRITES"`
	} `yaml:"stations"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins" env:"CONSOLE_CORS_ALLOWED_ORIGINS"`
	} `yaml:"cors"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.API.BaseURL = "http://localhost:8081"
	cfg.API.TimeoutSeconds = 10
	cfg.Storage.Driver = storage.DriverFile
	cfg.Storage.FilePath = "data/session.json"
	cfg.Storage.SQLitePath = "data/console.db"
	cfg.Storage.Redis.Namespace = "console"
	cfg.Notifications.AutoCloseMillis = 3000
	cfg.CORS.AllowedOrigins = []string{"http://localhost:8080", "http://127.0.0.1:8080"}

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	base, err := url.Parse(strings.TrimSpace(c.API.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("config: api base url %q must be absolute", c.API.BaseURL)
	}

	driver, err := storage.ValidateDriver(c.Storage.Driver)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Storage.Driver = driver

	switch driver {
	case storage.DriverFile:
		if strings.TrimSpace(c.Storage.FilePath) == "" {
			return errors.New("config: storage file path is required")
		}
	case storage.DriverSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return errors.New("config: storage sqlite path is required")
		}
	case storage.DriverPostgres:
		if strings.TrimSpace(c.Storage.PostgresDSN) == "" {
			return errors.New("config: storage postgres DSN is required")
		}
	case storage.DriverRedis:
		if strings.TrimSpace(c.Storage.Redis.Addr) == "" {
			return errors.New("config: storage redis addr is required")
		}
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// APITimeout returns the remote API client timeout.
func (c *Config) APITimeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// AutoClose returns how long a notification stays visible.
func (c *Config) AutoClose() time.Duration {
	if c.Notifications.AutoCloseMillis <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.Notifications.AutoCloseMillis) * time.Millisecond
}

// RedisTTL returns the session entry TTL; zero keeps entries until logout.
func (c *Config) RedisTTL() time.Duration {
	if c.Storage.Redis.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.Storage.Redis.TTLMinutes) * time.Minute
}

// AllowsAnyOrigin reports whether CORS and websocket origin checks are open.
func (c *Config) AllowsAnyOrigin() bool {
	for _, o := range c.CORS.AllowedOrigins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}

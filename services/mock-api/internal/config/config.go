package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "stationdesk/libs/config"
)

// Config represents mock API configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"MOCK_API_HTTP_PORT"`
	} `yaml:"http"`
	JWT struct {
		Secret           string `yaml:"secret" env:"MOCK_API_JWT_SECRET"`
		ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"MOCK_API_JWT_EXPIRES_MINUTES"`
	} `yaml:"jwt"`
	Password struct {
		BcryptCost int `yaml:"bcryptCost" env:"MOCK_API_BCRYPT_COST"`
	} `yaml:"password"`
	Seed struct {
		AdminName     string `yaml:"adminName" env:"MOCK_API_ADMIN_NAME"`
		AdminEmail    string `yaml:"adminEmail" env:"MOCK_API_ADMIN_EMAIL"`
		AdminPassword string `yaml:"adminPassword" env:"MOCK_API_ADMIN_PASSWORD"`
		StationsFile  string `yaml:"stationsFile" env:"MOCK_API_STATIONS_FILE"`
	} `yaml:"seed"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8081"
	cfg.JWT.ExpiresInMinutes = 60 * 24 * 30
	cfg.Seed.AdminName = "Admin"

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	if cfg.JWT.ExpiresInMinutes <= 0 {
		cfg.JWT.ExpiresInMinutes = 60
	}
	if (cfg.Seed.AdminEmail == "") != (cfg.Seed.AdminPassword == "") {
		return nil, errors.New("config: admin email and password must be set together")
	}
	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8081"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// SeedsAdmin reports whether an admin account should be created at startup.
func (c *Config) SeedsAdmin() bool {
	return c.Seed.AdminEmail != ""
}

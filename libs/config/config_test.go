package config

import (
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	HTTP struct {
		Port string `yaml:"port" env:"SAMPLE_HTTP_PORT"`
	} `yaml:"http"`
	Storage struct {
		Driver string
		Path   string `yaml:"path"`
	} `yaml:"storage"`
	Timeout int      `yaml:"timeout" env:"SAMPLE_TIMEOUT"`
	Merge   bool     `yaml:"merge" env:"SAMPLE_MERGE"`
	Origins []string `yaml:"origins" env:"SAMPLE_ORIGINS"`
	Skipped string   `env:"-"`
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "config.yaml")
	yamlBody := "http:\n  port: \"9000\"\nstorage:\n  path: /tmp/a.json\ntimeout: 3\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SAMPLE_TIMEOUT", "7")
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("SAMPLE_MERGE", "true")
	t.Setenv("SAMPLE_ORIGINS", "http://a, http://b,")

	var cfg sample
	if err := LoadConfig(&cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTP.Port != "9000" {
		t.Fatalf("expected yaml port, got %q", cfg.HTTP.Port)
	}
	if cfg.Timeout != 7 {
		t.Fatalf("expected env override 7, got %d", cfg.Timeout)
	}
	if cfg.Storage.Driver != "file" || cfg.Storage.Path != "/tmp/a.json" {
		t.Fatalf("unexpected storage section %+v", cfg.Storage)
	}
	if !cfg.Merge {
		t.Fatalf("expected merge flag from env")
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "http://b" {
		t.Fatalf("unexpected origins %v", cfg.Origins)
	}
}

func TestLoadConfigReadsDotenv(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SAMPLE_HTTP_PORT=7001\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SAMPLE_HTTP_PORT", "")
	os.Unsetenv("SAMPLE_HTTP_PORT")

	var cfg sample
	if err := LoadConfig(&cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != "7001" {
		t.Fatalf("expected port from .env, got %q", cfg.HTTP.Port)
	}
}

func TestLoadConfigMissingExplicitDotenv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DOTENV_FILE", "does-not-exist.env")

	var cfg sample
	if err := LoadConfig(&cfg); err == nil {
		t.Fatalf("expected error for missing explicit dotenv file")
	}
}

func TestLoadConfigRejectsNonPointer(t *testing.T) {
	if err := LoadConfig(sample{}); err == nil {
		t.Fatalf("expected error for non-pointer target")
	}
	if err := LoadConfig(nil); err == nil {
		t.Fatalf("expected error for nil target")
	}
}

func TestLoadConfigBadValue(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SAMPLE_TIMEOUT", "soon")

	var cfg sample
	if err := LoadConfig(&cfg); err == nil {
		t.Fatalf("expected parse error")
	}
}

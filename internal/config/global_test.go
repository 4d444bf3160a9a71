package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeGlobalConfig(t *testing.T, content string) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	if content == "" {
		return
	}
	configDir := filepath.Join(tmpDir, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, GlobalConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path := GlobalConfigPath()
	want := "/custom/config/sparqlviz/config.yml"
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	path = GlobalConfigPath()
	want = filepath.Join(home, ".config", "sparqlviz", "config.yml")
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	writeGlobalConfig(t, "")

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.Limit != 100 || cfg.Width != 960 || cfg.Height != 500 {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	writeGlobalConfig(t, `limit: 50
height: 800
db_path: ~/graphs/store.db
log_level: debug
prefixes:
  ex: http://example.org/
`)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.Limit != 50 {
		t.Errorf("Limit = %d, want 50", cfg.Limit)
	}
	if cfg.Height != 800 || cfg.Width != 960 {
		t.Errorf("size = %vx%v, want 960x800", cfg.Width, cfg.Height)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Prefixes["ex"] != "http://example.org/" {
		t.Errorf("Prefixes[ex] = %q", cfg.Prefixes["ex"])
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "graphs/store.db"); cfg.DBPath != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, want)
	}

	again, _ := LoadGlobalConfig()
	if again != cfg {
		t.Error("second load should return the cached config")
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	writeGlobalConfig(t, "limit: [not a number")

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("LoadGlobalConfig() should return error for invalid YAML")
	}
}

func TestLoadGlobalConfig_InvalidValue(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	writeGlobalConfig(t, "width: -5\n")

	if _, err := LoadGlobalConfig(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadGlobalConfig() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadGlobalConfig_EnvOverrides(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	writeGlobalConfig(t, "limit: 50\n")
	t.Setenv("SPARQLVIZ_LIMIT", "7")
	t.Setenv("SPARQLVIZ_ADDR", ":9999")

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.Limit != 7 {
		t.Errorf("Limit = %d, want 7 from environment", cfg.Limit)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Addr)
	}
}

func TestLoadGlobalConfig_BadEnv(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	writeGlobalConfig(t, "")
	t.Setenv("SPARQLVIZ_MAX_TICKS", "forever")

	if _, err := LoadGlobalConfig(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadGlobalConfig() error = %v, want ErrInvalidConfig", err)
	}
}

func TestEnvKey(t *testing.T) {
	if got := EnvKey("tick_rate"); got != "SPARQLVIZ_TICK_RATE" {
		t.Errorf("EnvKey(tick_rate) = %q", got)
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero limit", func(c *Config) { c.Limit = 0 }},
		{"negative width", func(c *Config) { c.Width = -1 }},
		{"zero height", func(c *Config) { c.Height = 0 }},
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }},
		{"zero max ticks", func(c *Config) { c.MaxTicks = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"empty namespace", func(c *Config) { c.Prefixes = map[string]string{"ex": ""} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestSetGet(t *testing.T) {
	cfg := Default()
	tests := []struct {
		key   string
		value string
	}{
		{"limit", "250"},
		{"width", "1280"},
		{"height", "720.5"},
		{"tick_rate", "30"},
		{"max_ticks", "500"},
		{"db_path", "/tmp/x.db"},
		{"addr", ":9000"},
		{"log_level", "debug"},
		{"prefixes.ex", "http://example.org/"},
	}
	for _, tt := range tests {
		if err := cfg.Set(tt.key, tt.value); err != nil {
			t.Fatalf("Set(%q, %q) error = %v", tt.key, tt.value, err)
		}
		got, err := cfg.Get(tt.key)
		if err != nil {
			t.Fatalf("Get(%q) error = %v", tt.key, err)
		}
		if got != tt.value {
			t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.value)
		}
	}

	if err := cfg.Set("prefixes.ex", ""); err != nil {
		t.Fatalf("Set removal error = %v", err)
	}
	if _, ok := cfg.Prefixes["ex"]; ok {
		t.Error("empty value should remove the prefix")
	}
}

func TestSet_Errors(t *testing.T) {
	cfg := Default()
	for _, kv := range [][2]string{
		{"limit", "many"},
		{"width", "wide"},
		{"log_level", "loud"},
		{"colour", "blue"},
		{"prefixes.", "http://example.org/"},
	} {
		if err := cfg.Set(kv[0], kv[1]); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Set(%q, %q) error = %v, want ErrInvalidConfig", kv[0], kv[1], err)
		}
	}
	if _, err := cfg.Get("colour"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Get(colour) error = %v, want ErrInvalidConfig", err)
	}
}

func TestPrefixMap(t *testing.T) {
	cfg := Default()
	cfg.Prefixes = map[string]string{
		"ex":  "http://example.org/",
		"rdf": "http://example.org/not-rdf#",
	}
	m := cfg.PrefixMap()

	if ns, ok := m.Lookup("ex"); !ok || ns != "http://example.org/" {
		t.Errorf("Lookup(ex) = %q, %v", ns, ok)
	}
	if ns, _ := m.Lookup("rdf"); ns != "http://example.org/not-rdf#" {
		t.Errorf("configured prefix should override default, got %q", ns)
	}
	if _, ok := m.Lookup("owl"); !ok {
		t.Error("default prefixes should be kept")
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	cfg := &Config{Limit: 42, Prefixes: map[string]string{"ex": "http://example.org/"}}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got.Limit != 42 {
		t.Errorf("Limit = %d, want 42", got.Limit)
	}
	if got.Prefixes["ex"] != "http://example.org/" {
		t.Errorf("Prefixes[ex] = %q", got.Prefixes["ex"])
	}
	if got.Width != 0 {
		t.Errorf("unset keys should stay zero in the file, got width %v", got.Width)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"tilde only", "~", home},
		{"tilde with path", "~/data/sparqlviz.db", filepath.Join(home, "data/sparqlviz.db")},
		{"absolute path", "/absolute/path", "/absolute/path"},
		{"relative path", "relative/path", "relative/path"},
		{"empty path", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.path); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// Package config handles sparqlviz settings: defaults, the global YAML
// file, and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sparqlviz/sparqlviz/internal/rdf"
)

// Config is the effective configuration.
type Config struct {
	Limit    int               `yaml:"limit,omitempty"`
	Width    float64           `yaml:"width,omitempty"`
	Height   float64           `yaml:"height,omitempty"`
	TickRate float64           `yaml:"tick_rate,omitempty"`
	MaxTicks int               `yaml:"max_ticks,omitempty"`
	DBPath   string            `yaml:"db_path,omitempty"`
	Addr     string            `yaml:"addr,omitempty"`
	LogLevel string            `yaml:"log_level,omitempty"`
	Prefixes map[string]string `yaml:"prefixes,omitempty"` // prefix -> namespace, added to the defaults
}

const (
	DataDir = "sparqlviz"
	DBFile  = "sparqlviz.db"
)

// ErrInvalidConfig is returned by Validate and Set.
var ErrInvalidConfig = errors.New("invalid config")

// ValidLogLevels lists the accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Keys lists the scalar keys accepted by Get and Set.
var Keys = []string{"limit", "width", "height", "tick_rate", "max_ticks", "db_path", "addr", "log_level"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Limit:    100,
		Width:    960,
		Height:   500,
		TickRate: 60,
		MaxTicks: 1000,
		DBPath:   DefaultDBPath(),
		Addr:     "127.0.0.1:8080",
		LogLevel: "info",
	}
}

// DefaultDBPath returns the store location under XDG_DATA_HOME, falling
// back to ~/.local/share.
func DefaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DBFile
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, DataDir, DBFile)
}

// merge overlays the non-zero fields of o onto c.
func (c *Config) merge(o *Config) {
	if o.Limit != 0 {
		c.Limit = o.Limit
	}
	if o.Width != 0 {
		c.Width = o.Width
	}
	if o.Height != 0 {
		c.Height = o.Height
	}
	if o.TickRate != 0 {
		c.TickRate = o.TickRate
	}
	if o.MaxTicks != 0 {
		c.MaxTicks = o.MaxTicks
	}
	if o.DBPath != "" {
		c.DBPath = ExpandPath(o.DBPath)
	}
	if o.Addr != "" {
		c.Addr = o.Addr
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	for p, ns := range o.Prefixes {
		if c.Prefixes == nil {
			c.Prefixes = make(map[string]string)
		}
		c.Prefixes[p] = ns
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, c.Limit)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: width and height must be positive, got %gx%g", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive, got %g", ErrInvalidConfig, c.TickRate)
	}
	if c.MaxTicks <= 0 {
		return fmt.Errorf("%w: max_ticks must be positive, got %d", ErrInvalidConfig, c.MaxTicks)
	}
	if err := ValidateLogLevel(c.LogLevel); err != nil {
		return err
	}
	for p, ns := range c.Prefixes {
		if p == "" || ns == "" {
			return fmt.Errorf("%w: empty prefix binding %q=%q", ErrInvalidConfig, p, ns)
		}
	}
	return nil
}

// ValidateLogLevel checks that the level value is valid.
func ValidateLogLevel(level string) error {
	for _, valid := range ValidLogLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("%w: log_level %q (valid: %v)", ErrInvalidConfig, level, ValidLogLevels)
}

// PrefixMap returns the default prefixes with the configured ones applied.
func (c *Config) PrefixMap() rdf.PrefixMap {
	m := rdf.DefaultPrefixes()
	keys := make([]string, 0, len(c.Prefixes))
	for p := range c.Prefixes {
		keys = append(keys, p)
	}
	sort.Strings(keys)
	for _, p := range keys {
		m = m.Set(p, c.Prefixes[p])
	}
	return m
}

// Get returns the string form of a scalar key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "limit":
		return strconv.Itoa(c.Limit), nil
	case "width":
		return strconv.FormatFloat(c.Width, 'g', -1, 64), nil
	case "height":
		return strconv.FormatFloat(c.Height, 'g', -1, 64), nil
	case "tick_rate":
		return strconv.FormatFloat(c.TickRate, 'g', -1, 64), nil
	case "max_ticks":
		return strconv.Itoa(c.MaxTicks), nil
	case "db_path":
		return c.DBPath, nil
	case "addr":
		return c.Addr, nil
	case "log_level":
		return c.LogLevel, nil
	}
	if p, ok := strings.CutPrefix(key, "prefixes."); ok {
		return c.Prefixes[p], nil
	}
	return "", fmt.Errorf("%w: unknown key %q (valid: %v)", ErrInvalidConfig, key, Keys)
}

// Set parses and assigns a value. Keys of the form "prefixes.<p>" bind a
// prefix; an empty value removes it.
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "limit":
		c.Limit, err = strconv.Atoi(value)
	case "width":
		c.Width, err = strconv.ParseFloat(value, 64)
	case "height":
		c.Height, err = strconv.ParseFloat(value, 64)
	case "tick_rate":
		c.TickRate, err = strconv.ParseFloat(value, 64)
	case "max_ticks":
		c.MaxTicks, err = strconv.Atoi(value)
	case "db_path":
		c.DBPath = value
	case "addr":
		c.Addr = value
	case "log_level":
		if err := ValidateLogLevel(value); err != nil {
			return err
		}
		c.LogLevel = value
	default:
		p, ok := strings.CutPrefix(key, "prefixes.")
		if !ok || p == "" {
			return fmt.Errorf("%w: unknown key %q (valid: %v)", ErrInvalidConfig, key, Keys)
		}
		if value == "" {
			delete(c.Prefixes, p)
			return nil
		}
		if c.Prefixes == nil {
			c.Prefixes = make(map[string]string)
		}
		c.Prefixes[p] = value
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return nil
}

// Save writes c as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

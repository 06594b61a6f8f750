// Package config loads the recompile configuration file.
//
// The file is TOML and every key is optional:
//
//	rule      = "shared"   # cycle rule: "shared" or "path"
//	log_level = "info"     # debug, info, warn, error
//
//	[server]
//	addr             = ":8080"
//	read_timeout     = "5s"
//	shutdown_timeout = "10s"
//	watch            = false
//
// A missing file is not an error: [Load] returns [Default]. Unknown keys
// are rejected so typos do not silently fall back to defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/recompile/pkg/depgraph"
)

const appName = "recompile"

// Duration is a time.Duration that decodes from strings like "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Server configures the HTTP API.
type Server struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	Watch           bool     `toml:"watch"`
}

// Config is the decoded configuration file.
type Config struct {
	Rule     string `toml:"rule"`
	LogLevel string `toml:"log_level"`
	Server   Server `toml:"server"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Rule:     depgraph.RuleShared.String(),
		LogLevel: "info",
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration{5 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
	}
}

// CycleRule parses the configured rule.
func (c *Config) CycleRule() (depgraph.Rule, error) {
	return depgraph.ParseRule(c.Rule)
}

// Level parses the configured log level.
func (c *Config) Level() (log.Level, error) {
	return log.ParseLevel(c.LogLevel)
}

// Validate checks values that decoding alone cannot.
func (c *Config) Validate() error {
	if _, err := c.CycleRule(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Server.ReadTimeout.Duration < 0 || c.Server.ShutdownTimeout.Duration < 0 {
		return errors.New("server timeouts must not be negative")
	}
	return nil
}

// Load reads the file at path on top of [Default]. If path is empty,
// [DefaultPath] is used. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/recompile/config.toml, falling back
// to ~/.config/recompile/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

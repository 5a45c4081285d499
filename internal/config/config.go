// Package config loads the immutable process configuration from the
// optional .askd YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for server and executor configuration.
const (
	DefaultHost      = "127.0.0.1"
	DefaultPort      = 5051
	DefaultTimeout   = 120 * time.Second
	DefaultCommand   = "claude"
	DefaultLogLevel  = "info"
	DefaultMaxOutput = 1 << 20 // 1 MB
)

// DefaultArgs are passed to the command before the prompt argument.
var DefaultArgs = []string{"-p"}

// Config holds the process-wide configuration. It is constructed once at
// startup and never mutated; all fields are optional in the file, with
// zero values representing defaults.
type Config struct {
	RawHost      string   `yaml:"host"`
	RawPort      int      `yaml:"port"`
	RawTimeout   string   `yaml:"timeout"` // e.g. "120s", "2m"
	CORS         bool     `yaml:"cors"`
	RawLogLevel  string   `yaml:"log_level"` // debug, info, warn, error
	RawCommand   string   `yaml:"command"`
	RawArgs      []string `yaml:"args"`       // argv between the command and the prompt
	RawMaxOutput int      `yaml:"max_output"` // bytes
}

// Host returns the configured listen host or the default.
func (c *Config) Host() string {
	if c.RawHost != "" {
		return c.RawHost
	}
	return DefaultHost
}

// Port returns the configured listen port or the default.
func (c *Config) Port() int {
	if c.RawPort > 0 {
		return c.RawPort
	}
	return DefaultPort
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host(), c.Port())
}

// Timeout returns the configured subprocess timeout or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// Command returns the executable name of the assistant CLI.
func (c *Config) Command() string {
	if c.RawCommand != "" {
		return c.RawCommand
	}
	return DefaultCommand
}

// Args returns the argv passed between the command and the prompt.
func (c *Config) Args() []string {
	if c.RawArgs != nil {
		return c.RawArgs
	}
	return DefaultArgs
}

// MaxOutputBytes returns the configured output cap or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// LogLevel returns the configured log level name or the default.
func (c *Config) LogLevel() string {
	if c.RawLogLevel != "" {
		return strings.ToLower(c.RawLogLevel)
	}
	return DefaultLogLevel
}

// Load reads the .askd file from dir (if present) and applies environment
// overrides. Environment variables always win over the file.
func Load(dir string) (*Config, error) {
	cfg := &Config{}

	path := filepath.Join(dir, ".askd")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing .askd: %w", err)
		}
	case os.IsNotExist(err):
		// No file; environment and defaults only.
	default:
		return nil, fmt.Errorf("reading .askd: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays ASKD_* environment variables onto cfg.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("ASKD_HOST"); v != "" {
		cfg.RawHost = v
	}
	if v := os.Getenv("ASKD_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 || p > 65535 {
			return fmt.Errorf("invalid ASKD_PORT %q", v)
		}
		cfg.RawPort = p
	}
	if v := os.Getenv("ASKD_TIMEOUT"); v != "" {
		// Seconds, matching the original deployment convention.
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return fmt.Errorf("invalid ASKD_TIMEOUT %q", v)
		}
		cfg.RawTimeout = (time.Duration(secs) * time.Second).String()
	}
	if v := os.Getenv("ASKD_CORS"); v != "" {
		cfg.CORS = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("ASKD_LOG_LEVEL"); v != "" {
		cfg.RawLogLevel = v
	}
	if v := os.Getenv("ASKD_COMMAND"); v != "" {
		cfg.RawCommand = v
	}
	return nil
}

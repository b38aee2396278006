// Package config handles loading and managing application configuration
// from YAML or TOML files and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// History controls the optional export log.
type History struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	Limit   int  `yaml:"limit" toml:"limit"`
}

// Defaults seeds the form of every new session.
type Defaults struct {
	PixelSize  int    `yaml:"pixel_size" toml:"pixel_size"`
	DarkColor  string `yaml:"dark_color" toml:"dark_color"`
	LightColor string `yaml:"light_color" toml:"light_color"`
}

// Config holds all application configuration values.
type Config struct {
	Port                 int      `yaml:"port" toml:"port"`
	Host                 string   `yaml:"host" toml:"host"`
	PortAttempts         int      `yaml:"port_attempts" toml:"port_attempts"`
	OpenBrowser          bool     `yaml:"open_browser" toml:"open_browser"`
	StaticDir            string   `yaml:"static_dir" toml:"static_dir"`
	DataDir              string   `yaml:"data_dir" toml:"data_dir"`
	LogLevel             string   `yaml:"log_level" toml:"log_level"`
	DefaultLanguage      string   `yaml:"default_language" toml:"default_language"`
	NotificationTTL      Duration `yaml:"notification_ttl" toml:"notification_ttl"`
	SessionIdleTTL       Duration `yaml:"session_idle_ttl" toml:"session_idle_ttl"`
	SessionSweepInterval Duration `yaml:"session_sweep_interval" toml:"session_sweep_interval"`
	History              History  `yaml:"history" toml:"history"`
	Defaults             Defaults `yaml:"defaults" toml:"defaults"`
}

// Duration is a wrapper around time.Duration that supports YAML and TOML
// unmarshalling from human-readable strings like "3s", "5m", "1h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.parse(s)
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, which the TOML decoder
// uses for string values.
func (d *Duration) UnmarshalText(text []byte) error {
	return d.parse(string(text))
}

func (d *Duration) parse(s string) error {
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return &Config{
		Port:                 3000,
		Host:                 "localhost",
		PortAttempts:         20,
		OpenBrowser:          true,
		DataDir:              filepath.Join(homeDir, ".qrgen"),
		LogLevel:             "info",
		DefaultLanguage:      "en",
		NotificationTTL:      Duration{3 * time.Second},
		SessionIdleTTL:       Duration{2 * time.Hour},
		SessionSweepInterval: Duration{5 * time.Minute},
		History:              History{Enabled: false, Limit: 500},
		Defaults: Defaults{
			PixelSize:  300,
			DarkColor:  "#000000",
			LightColor: "#FFFFFF",
		},
	}
}

// Load reads configuration from the file at path, falling back to defaults
// if the file does not exist. Files ending in .toml are parsed as TOML,
// everything else as YAML. Environment variables with the QRGEN_ prefix,
// and PORT, override any file or default values.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist; proceed with defaults.
	} else if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides applies QRGEN_* environment variable overrides to cfg.
// PORT is honoured as well; QRGEN_PORT wins when both are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("QRGEN_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("QRGEN_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("QRGEN_PORT_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PortAttempts = n
		}
	}
	if v := os.Getenv("QRGEN_OPEN_BROWSER"); v != "" {
		if b, ok := parseBool(v); ok {
			cfg.OpenBrowser = b
		}
	}
	if v := os.Getenv("QRGEN_STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("QRGEN_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("QRGEN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QRGEN_DEFAULT_LANGUAGE"); v != "" {
		cfg.DefaultLanguage = v
	}
	if v := os.Getenv("QRGEN_NOTIFICATION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.NotificationTTL = Duration{d}
		}
	}
	if v := os.Getenv("QRGEN_SESSION_IDLE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SessionIdleTTL = Duration{d}
		}
	}
	if v := os.Getenv("QRGEN_HISTORY_ENABLED"); v != "" {
		if b, ok := parseBool(v); ok {
			cfg.History.Enabled = b
		}
	}
	if v := os.Getenv("QRGEN_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.History.Limit = n
		}
	}
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.NotificationTTL.Duration <= 0 {
		return fmt.Errorf("config: notification_ttl must be positive")
	}
	if c.Defaults.PixelSize < 200 || c.Defaults.PixelSize > 500 {
		return fmt.Errorf("config: defaults.pixel_size %d outside [200, 500]", c.Defaults.PixelSize)
	}
	return nil
}

// EnsureDataDir creates the DataDir if it does not already exist.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", c.DataDir, err)
	}
	return nil
}

// HistoryPath is the SQLite file holding the export log.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "exports.db")
}

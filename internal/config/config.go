// Package config loads tool configuration from ~/.notedeck/config.yaml with
// NOTEDECK_* environment variables taking precedence, falling back to
// defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config holds all tool configuration.
type Config struct {
	DBPath           string
	RemoteEndpoint   string
	AnonID           string
	SaveDebounce     time.Duration
	AutosaveInterval time.Duration
	LogLevel         string
}

// fileConfig mirrors the YAML schema. Durations are strings in
// time.ParseDuration form ("250ms", "5m").
type fileConfig struct {
	DBPath           string `yaml:"dbPath,omitempty"`
	RemoteEndpoint   string `yaml:"remoteEndpoint,omitempty"`
	AnonID           string `yaml:"anonId,omitempty"`
	SaveDebounce     string `yaml:"saveDebounce,omitempty"`
	AutosaveInterval string `yaml:"autosaveInterval,omitempty"`
	LogLevel         string `yaml:"logLevel,omitempty"`
}

// Default returns a Config with sensible defaults. The remote endpoint is
// empty by default; without it the tool works purely against the local
// working copy.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DBPath:           filepath.Join(home, ".notedeck", "notedeck.db"),
		RemoteEndpoint:   "",
		AnonID:           "",
		SaveDebounce:     400 * time.Millisecond,
		AutosaveInterval: 15 * time.Minute,
		LogLevel:         "warn",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".notedeck", "config.yaml"), nil
}

// Load reads configuration in layers: defaults, then the config file, then
// environment variables. A missing config file is not an error.
func Load() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// EnsureAnonID returns the anonymous identifier from the config file at
// path, issuing and persisting a fresh one on first use. The id keys all
// remote state for this user, so it must be stable across runs.
func EnsureAnonID(path string) (string, error) {
	var fc fileConfig
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return "", fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// First run; the file gets created below.
	default:
		return "", fmt.Errorf("reading config file %s: %w", path, err)
	}
	if fc.AnonID != "" {
		return fc.AnonID, nil
	}

	fc.AnonID = uuid.NewString()
	out, err := yaml.Marshal(fc)
	if err != nil {
		return "", fmt.Errorf("encoding config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		return "", fmt.Errorf("writing config file %s: %w", path, err)
	}
	return fc.AnonID, nil
}

// LoadFrom reads configuration using the given file path instead of the
// default location.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		if err := applyFile(&cfg, fc); err != nil {
			return Config{}, fmt.Errorf("applying config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// No file is fine; defaults plus env apply.
	default:
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// firstNonEmpty layers an override over a default.
func firstNonEmpty(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

func applyFile(cfg *Config, fc fileConfig) error {
	cfg.DBPath = firstNonEmpty(fc.DBPath, cfg.DBPath)
	cfg.RemoteEndpoint = firstNonEmpty(fc.RemoteEndpoint, cfg.RemoteEndpoint)
	cfg.AnonID = firstNonEmpty(fc.AnonID, cfg.AnonID)
	if fc.SaveDebounce != "" {
		d, err := time.ParseDuration(fc.SaveDebounce)
		if err != nil {
			return fmt.Errorf("parsing saveDebounce: %w", err)
		}
		cfg.SaveDebounce = d
	}
	if fc.AutosaveInterval != "" {
		d, err := time.ParseDuration(fc.AutosaveInterval)
		if err != nil {
			return fmt.Errorf("parsing autosaveInterval: %w", err)
		}
		cfg.AutosaveInterval = d
	}
	cfg.LogLevel = firstNonEmpty(fc.LogLevel, cfg.LogLevel)
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("NOTEDECK_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("NOTEDECK_REMOTE"); v != "" {
		cfg.RemoteEndpoint = v
	}
	if v := os.Getenv("NOTEDECK_ANON_ID"); v != "" {
		cfg.AnonID = v
	}
	if v := os.Getenv("NOTEDECK_SAVE_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SaveDebounce = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("NOTEDECK_AUTOSAVE_INTERVAL_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AutosaveInterval = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("NOTEDECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

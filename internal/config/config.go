// Package config handles configuration loading and validation for tada.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`
	Theme   string        `yaml:"theme"` // classic, neon or mono
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
}

// LogConfig controls the root logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty logs to <data-dir>/tada.log, "-" to stderr
}

// ServerConfig configures `todo serve`.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	DataFile string `yaml:"data_file"` // empty keeps todos in memory only
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		APIURL:  "http://localhost:3000",
		Timeout: 10 * time.Second,
		Theme:   "classic",
		Log: LogConfig{
			Level: "warn",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:3000",
		},
	}
}

// Load reads configuration from path on top of the defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	return &cfg, nil
}

// Validate checks the fields that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api_url %q must be an absolute http(s) URL", c.APIURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Errorf("api_url scheme %q must be http or https", u.Scheme))
	}

	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}

	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		errs = append(errs, fmt.Errorf("theme %q must be one of classic, neon, mono", c.Theme))
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tada", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "tada")
}

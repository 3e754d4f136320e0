// Package config loads the client configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds client settings. Values come from the config file with
// command-line flags overriding individual fields.
type Config struct {
	// ServerURL is the base URL of the backend API, including the /api
	// prefix.
	ServerURL string `yaml:"server_url"`

	// TimeoutSeconds is the transport-level request timeout.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// DataDir holds the session database. Defaults to ~/.qualdash.
	DataDir string `yaml:"data_dir"`

	// CacheDir enables disk-backed HTTP response caching when set.
	CacheDir string `yaml:"cache_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerURL:      "http://localhost:8000/api",
		TimeoutSeconds: 30,
	}
}

// Load reads the YAML config at path. An empty path means the default
// location (~/.qualdash/config.yaml); a missing file yields Default.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, ".qualdash", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = Default().TimeoutSeconds
	}

	return cfg, nil
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveDataDir returns the data directory, creating it if needed.
func (c Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".qualdash")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dir, nil
}

// Package config loads server configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all server settings.
type Config struct {
	Listen        string `yaml:"listen"`         // address for the HTTP server, e.g. ":8080"
	DataDir       string `yaml:"data_dir"`       // directory holding per-tenant database files
	JWTSecret     string `yaml:"jwt_secret"`     // signing secret for API tokens
	DefaultTenant string `yaml:"default_tenant"` // tenant bootstrapped at startup
}

// Default returns the built-in defaults used when no config file exists.
func Default() Config {
	return Config{
		Listen:        ":8080",
		DataDir:       "data",
		DefaultTenant: "default",
	}
}

// Load reads the config file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CAMPUS_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("CAMPUS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("CAMPUS_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("CAMPUS_DEFAULT_TENANT"); v != "" {
		cfg.DefaultTenant = v
	}
}

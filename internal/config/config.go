// Package config loads client connection profiles from YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds one connection profile.
type Config struct {
	Cluster ClusterConfig `yaml:"cluster"`
	Project ProjectConfig `yaml:"project"`
	Logging LoggingConfig `yaml:"logging"`
}

// ClusterConfig holds backend connection settings.
type ClusterConfig struct {
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	CAChain    string `yaml:"ca_chain"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// ProjectConfig identifies the project the client is scoped to.
type ProjectConfig struct {
	Name     string `yaml:"name"`
	ID       int    `yaml:"id"`
	External bool   `yaml:"external"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: info)
}

// Load reads a profile from a YAML file by environment name (local, dev,
// prod). ${VAR} and ${VAR:-default} references are expanded from the
// environment before parsing.
func Load(env string) (Config, error) {
	path := findProfilePath(env)

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse profile: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid profile: %w", err)
	}
	return cfg, nil
}

// GetEnv returns the current environment from HOPSWORKS_ENV, defaulting to
// "local".
func GetEnv() string {
	if env := os.Getenv("HOPSWORKS_ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Cluster.TimeoutSec <= 0 {
		c.Cluster.TimeoutSec = 30
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the profile for correctness.
func (c *Config) Validate() error {
	if c.Cluster.URL == "" {
		return fmt.Errorf("cluster.url is required")
	}
	if c.Cluster.APIKey == "" {
		return fmt.Errorf("cluster.api_key is required")
	}
	if c.Project.Name == "" {
		return fmt.Errorf("project.name is required")
	}
	if c.Project.ID <= 0 {
		return fmt.Errorf("project.id must be positive, got %d", c.Project.ID)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// findProfilePath locates the profile file: ./config/<env>.yaml first,
// then ~/.hopsworks/<env>.yaml.
func findProfilePath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}
	if home, err := os.UserHomeDir(); err == nil {
		if path := filepath.Join(home, ".hopsworks", filename); fileExists(path) {
			return path
		}
	}
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment
// variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

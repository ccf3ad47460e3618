// Package config loads liftnav host settings from a YAML or JSON file with
// environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/liftnav/pkg/domain"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "liftnav.yaml"

// Environment variables that override file values.
const (
	EnvPort      = "LIFTNAV_PORT"
	EnvRedisAddr = "LIFTNAV_REDIS_ADDR"
	EnvLogLevel  = "LIFTNAV_LOG_LEVEL"
)

// Config is the host configuration shared by every command.
type Config struct {
	// Surface labels this coordinator in logs, metrics and Redis channels.
	Surface  string `yaml:"surface" json:"surface"`
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Root is the wire form of the first page; empty means the dashboard.
	Root map[string]any `yaml:"root" json:"root"`

	HTTP  HTTPConfig  `yaml:"http" json:"http"`
	Redis RedisConfig `yaml:"redis" json:"redis"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Port    int  `yaml:"port" json:"port"`
	Metrics bool `yaml:"metrics" json:"metrics"`
}

// RedisConfig configures the optional state mirror. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Surface:  "main",
		LogLevel: "info",
		HTTP:     HTTPConfig{Port: 8080, Metrics: true},
		Redis:    RedisConfig{Prefix: "liftnav:"},
	}
}

// Load reads path (YAML, or JSON by extension) over the defaults.
// A missing file yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := decode(path, data, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment as seen through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.HTTP.Port = port
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return nil
}

// RootDestination decodes the configured root page.
func (c *Config) RootDestination() (domain.Destination, error) {
	if len(c.Root) == 0 {
		return domain.Dashboard{}, nil
	}
	d, err := domain.DecodeMap(c.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid root: %w", err)
	}
	return d, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}

// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"costwatch/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains API server configuration
	Server ServerConfig `json:"server"`

	// Warehouse contains the billing row warehouse connection
	Warehouse WarehouseConfig `json:"warehouse"`

	// Tenants contains the tenant directory connection
	Tenants TenantsConfig `json:"tenants"`

	// Evaluation contains metric evaluation settings
	Evaluation EvaluationConfig `json:"evaluation"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains API server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// WarehouseConfig contains ClickHouse connection settings
type WarehouseConfig struct {
	// Host is the ClickHouse host
	Host string `json:"host"`

	// Port is the native protocol port
	Port int `json:"port"`

	// Database is the fallback database when a tenant namespace is absent
	Database string `json:"database"`

	// Username for authentication
	Username string `json:"username"`

	// Password for authentication
	Password string `json:"password,omitempty"`

	// Debug enables driver debug output
	Debug bool `json:"debug"`
}

// TenantsConfig contains the tenant directory settings
type TenantsConfig struct {
	// PostgresDSN is the connection string for the tenant directory
	PostgresDSN string `json:"postgres_dsn"`
}

// EvaluationConfig contains metric evaluation settings
type EvaluationConfig struct {
	// RowFetchAttempts is how many times a failed row fetch is retried
	// at the boundary before the evaluation fails wholesale
	RowFetchAttempts int `json:"row_fetch_attempts"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr: ":8080",
		},
		Warehouse: WarehouseConfig{
			Host:     "localhost",
			Port:     9000,
			Database: "costwatch",
			Username: "default",
		},
		Tenants: TenantsConfig{
			PostgresDSN: "postgres://localhost/costwatch?sslmode=disable",
		},
		Evaluation: EvaluationConfig{
			RowFetchAttempts: 3,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}

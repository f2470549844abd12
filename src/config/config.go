package config

import (
	"fmt"
	"os"
	"strconv"

	"price-streamer/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}

	// 3. Environment overrides (.env loaded by the entrypoint)
	config.applyEnvOverrides()

	// 4. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// applyEnvOverrides lets deployment environments override wiring without
// editing the YAML file. Matches the env names the original deployment used.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SERVER_IP"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("FEED_WS_URL"); v != "" {
		c.Feed.WsURL = v
	}
	if v := os.Getenv("EXCHANGE_INFO_URL"); v != "" {
		c.Catalog.ExchangeInfoURL = v
	}
	if v := os.Getenv("DB_CONNECTION_STRING"); v != "" {
		c.Storage.DBConnectionString = v
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	// Validate App configuration (Flattened)
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Validate Server configuration (Flattened)
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	// Validate Feed configuration
	if c.Feed.WsURL == "" {
		return fmt.Errorf("feed ws_url cannot be empty")
	}
	if c.Feed.ReconcileIntervalSec <= 0 {
		return fmt.Errorf("feed reconcile interval must be greater than 0")
	}
	if c.Feed.PingIntervalSec <= 0 {
		return fmt.Errorf("feed ping interval must be greater than 0")
	}
	if c.Feed.MaxRetries <= 0 {
		return fmt.Errorf("feed max retries must be greater than 0")
	}
	if c.Feed.BackoffBaseSec <= 0 || c.Feed.BackoffCapSec < c.Feed.BackoffBaseSec {
		return fmt.Errorf("feed backoff base/cap misconfigured: base=%.1f cap=%.1f",
			c.Feed.BackoffBaseSec, c.Feed.BackoffCapSec)
	}

	// Validate Catalog configuration
	if c.Catalog.ExchangeInfoURL == "" {
		return fmt.Errorf("catalog exchange_info_url cannot be empty")
	}
	if c.Catalog.FetchRetries <= 0 {
		return fmt.Errorf("catalog fetch retries must be greater than 0")
	}

	// Validate Storage configuration
	if c.Storage.DBType == "" {
		return fmt.Errorf("database type cannot be empty")
	}
	if c.Storage.DBType == "sqlite" && c.Storage.DBPath == "" {
		return fmt.Errorf("database path cannot be empty for sqlite")
	}
	if c.Storage.DBType == "postgres" && c.Storage.DBConnectionString == "" {
		return fmt.Errorf("connection string cannot be empty for postgres")
	}

	// Validate Rate Limit configuration
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values cannot be negative")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage backends
const (
	BackendMemory     = "memory"
	BackendClickHouse = "clickhouse"
	BackendMongo      = "mongo"
)

// Config holds the application configuration
type Config struct {
	StorageBackend string

	// ClickHouse configuration
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	// MongoDB configuration
	MongoURI      string
	MongoDatabase string

	// Logging
	LogLevel  string
	LogFormat string

	// Terminal
	NoColor bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	config.StorageBackend = strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory))
	switch config.StorageBackend {
	case BackendMemory:
	case BackendClickHouse:
		if err := config.loadClickHouse(); err != nil {
			return nil, err
		}
	case BackendMongo:
		config.MongoURI = getEnv("MONGO_URI", "mongodb://localhost:27017")
		config.MongoDatabase = getEnv("MONGO_DATABASE", "snake_bnb")
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q (expected memory, clickhouse or mongo)", config.StorageBackend)
	}

	config.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "warn"))
	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", config.LogLevel)
	}

	config.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "console"))
	if config.LogFormat != "console" && config.LogFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", config.LogFormat)
	}

	config.NoColor = os.Getenv("NO_COLOR") != ""

	return config, nil
}

func (c *Config) loadClickHouse() error {
	c.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
	if c.ClickHouseHost == "" {
		return fmt.Errorf("CLICKHOUSE_HOST is required when STORAGE_BACKEND is clickhouse")
	}

	portStr := os.Getenv("CLICKHOUSE_PORT")
	if portStr == "" {
		c.ClickHousePort = 9000 // Default ClickHouse native port
	} else {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid CLICKHOUSE_PORT: %w", err)
		}
		c.ClickHousePort = port
	}

	c.ClickHouseDatabase = getEnv("CLICKHOUSE_DATABASE", "default")
	c.ClickHouseUser = getEnv("CLICKHOUSE_USER", "default")
	// Password is optional, can be empty
	c.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
	c.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

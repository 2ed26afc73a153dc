package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"STORAGE_BACKEND", "CLICKHOUSE_HOST", "CLICKHOUSE_PORT", "CLICKHOUSE_DATABASE",
		"CLICKHOUSE_USER", "CLICKHOUSE_PASSWORD", "CLICKHOUSE_USE_TLS",
		"MONGO_URI", "MONGO_DATABASE", "LOG_LEVEL", "LOG_FORMAT", "NO_COLOR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.False(t, cfg.NoColor)
}

func TestLoadFromEnv_ClickHouse(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "ClickHouse")
	t.Setenv("CLICKHOUSE_HOST", "db.local")
	t.Setenv("CLICKHOUSE_USE_TLS", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendClickHouse, cfg.StorageBackend)
	assert.Equal(t, "db.local", cfg.ClickHouseHost)
	assert.Equal(t, 9000, cfg.ClickHousePort)
	assert.Equal(t, "default", cfg.ClickHouseDatabase)
	assert.Equal(t, "default", cfg.ClickHouseUser)
	assert.True(t, cfg.ClickHouseUseTLS)
}

func TestLoadFromEnv_ClickHouseRequiresHost(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "clickhouse")

	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadFromEnv_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "clickhouse")
	t.Setenv("CLICKHOUSE_HOST", "db.local")
	t.Setenv("CLICKHOUSE_PORT", "nine")

	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadFromEnv_Mongo(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "mongo")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "snake_bnb", cfg.MongoDatabase)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown backend", key: "STORAGE_BACKEND", value: "sqlite"},
		{name: "unknown log level", key: "LOG_LEVEL", value: "loud"},
		{name: "unknown log format", key: "LOG_FORMAT", value: "xml"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadFromEnv_NoColor(t *testing.T) {
	clearEnv(t)
	t.Setenv("NO_COLOR", "1")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.NoColor)
}

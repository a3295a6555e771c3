package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int      `env:"TEST_HTTP_PORT" envDefault:"8080"`
	LogLevel string   `env:"TEST_LOG_LEVEL" envDefault:"info"`
	Brokers  []string `env:"TEST_KAFKA_BROKERS" envDefault:"localhost:9092"`
	Required string   `env:"TEST_REQUIRED_VALUE,required"`
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TEST_REQUIRED_VALUE", "present")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, "present", cfg.Required)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TEST_HTTP_PORT", "9000")
	t.Setenv("TEST_LOG_LEVEL", "debug")
	t.Setenv("TEST_KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("TEST_REQUIRED_VALUE", "present")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Brokers)
}

func TestLoad_MissingRequired(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_HTTP_PORT", "not-a-number")
	t.Setenv("TEST_REQUIRED_VALUE", "present")

	var cfg testConfig
	assert.Error(t, Load(&cfg))
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "en", cfg.App.DeviceLanguage)
	assert.Equal(t, 20*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.API.SettlementMaxAttempts)
	assert.Equal(t, "@multivendor:state", cfg.Storage.Key)
	assert.Equal(t, 250*time.Millisecond, cfg.Storage.PersistDebounce)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Kafka.JournalEnabled)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_TYPE", "sqlite")
	t.Setenv("PERSIST_DEBOUNCE", "0s")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, time.Duration(0), cfg.Storage.PersistDebounce)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

package config

import (
	"testing"

	"smshub/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/smshub-test.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/smshub-test.db", cfg.DatabasePath)
	assert.Empty(t, cfg.WebhookSecret)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, 0.1, cfg.TracingSampleRate)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_PATH", "data.db")
	t.Setenv("WEBHOOK_SECRET", "topsecret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "9090")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLE_RATE", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data.db", cfg.DatabasePath)
	assert.Equal(t, "topsecret", cfg.WebhookSecret)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, 0.5, cfg.TracingSampleRate)
}

func TestLoadMissingDatabasePath(t *testing.T) {
	t.Setenv("DB_PATH", "")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeMissingConfig, errors.GetCode(err))
}

func TestLoadInvalidSampleRate(t *testing.T) {
	t.Setenv("DB_PATH", "data.db")
	t.Setenv("OTEL_SAMPLE_RATE", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidConfig, errors.GetCode(err))
}

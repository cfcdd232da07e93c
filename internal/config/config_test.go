package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/chainguard-dev/eip-reclaimer/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults-local", func(t *testing.T) {
		t.Setenv(lambdaRuntimeAPIEnv, "")
		unsetenv(t, lambdaRuntimeAPIEnv)

		c, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "", c.Region)
		assert.False(t, c.InLambda)
		assert.Equal(t, log.Options{Level: slog.LevelInfo, Format: log.FormatText}, c.LogOptions())
	})

	t.Run("defaults-lambda", func(t *testing.T) {
		t.Setenv(lambdaRuntimeAPIEnv, "127.0.0.1:9001")

		c, err := Load()
		require.NoError(t, err)
		assert.True(t, c.InLambda)
		assert.Equal(t, string(log.FormatJSON), c.LogFormat)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("EIP_RECLAIMER_REGION", "eu-west-1")
		t.Setenv("EIP_RECLAIMER_LOG_LEVEL", "debug")
		t.Setenv("EIP_RECLAIMER_LOG_FORMAT", "json")

		c, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "eu-west-1", c.Region)
		assert.Equal(t, log.Options{Level: slog.LevelDebug, Format: log.FormatJSON}, c.LogOptions())
	})

	t.Run("invalid-level", func(t *testing.T) {
		t.Setenv("EIP_RECLAIMER_LOG_LEVEL", "chatty")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid-format", func(t *testing.T) {
		t.Setenv("EIP_RECLAIMER_LOG_FORMAT", "xml")
		_, err := Load()
		assert.Error(t, err)
	})
}

// unsetenv removes key for the duration of the test. It must follow a
// t.Setenv of the same key so the original value is restored.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetenv %s: %v", key, err)
	}
}

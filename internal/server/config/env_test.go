package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	env := map[string]string{
		"TODOPOC_DATABASE_DSN":        "postgres://db",
		"TODOPOC_VERIFICATION_EXPIRY": "10m",
		"TODOPOC_NOTIFY_ATTEMPTS":     "7",
		"TODOPOC_EMAILJS_PRIVATE_KEY": "secret",
		"TODOPOC_LOG_LEVEL":           "",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := &Config{LogLevel: "info"}
	require.NoError(t, parseEnv(cfg, lookup))

	assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
	assert.Equal(t, 10*time.Minute, cfg.VerificationExpiry)
	assert.Equal(t, 7, cfg.NotifyAttempts)
	assert.Equal(t, "secret", cfg.EmailJSPrivateKey)
	assert.Equal(t, "info", cfg.LogLevel, "empty values are ignored")
}

func TestParseEnv_BadValues(t *testing.T) {
	for k, v := range map[string]string{
		"TODOPOC_SHUTDOWN_TIMEOUT":  "later",
		"TODOPOC_NOTIFY_QUEUE_SIZE": "many",
	} {
		lookup := func(key string) (string, bool) {
			if key == k {
				return v, true
			}
			return "", false
		}
		err := parseEnv(&Config{}, lookup)
		require.Error(t, err, k)
		assert.Contains(t, err.Error(), k)
	}
}

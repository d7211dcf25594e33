package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":  "www.example:9000",
		"database_driver":     "sqlite",
		"database_dsn":        "todo.db",
		"verification_expiry": "45m",
		"notifier":            "emailjs",
		"notify_attempts":     5,
		"notify_retry_delay":  "2s",
		"emailjs_service_id":  "svc",
		"emailjs_template_id": "tpl",
		"emailjs_public_key":  "pub",
		"s3_bucket":           "bucket",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", pathFlag}, noEnv))

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "sqlite", cfg.DatabaseDriver)
		assert.Equal(t, "todo.db", cfg.DatabaseDSN)
		assert.Equal(t, 45*time.Minute, cfg.VerificationExpiry)
		assert.Equal(t, "emailjs", cfg.Notifier)
		assert.Equal(t, 5, cfg.NotifyAttempts)
		assert.Equal(t, 2*time.Second, cfg.NotifyRetryDelay)
		assert.Equal(t, "svc", cfg.EmailJSServiceID)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		// absent keys keep the defaults
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, 64, cfg.NotifyQueueSize)
	})

	t.Run("path from environment", func(t *testing.T) {
		cfg := &Config{}
		lookup := func(k string) (string, bool) {
			if k == "TODOPOC_CONFIG" {
				return pathFlag, true
			}
			return "", false
		}
		require.NoError(t, parseJson(cfg, nil, lookup))
		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
	})

	t.Run("no config and no flags → no changes", func(t *testing.T) {
		cfg := &Config{EndpointAddrHTTP: "defaults:1234", VerificationExpiry: 2 * time.Minute}
		require.NoError(t, parseJson(cfg, nil, noEnv))

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, 2*time.Minute, cfg.VerificationExpiry)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		err := parseJson(&Config{}, []string{"-c", bad}, noEnv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config file")
	})

	t.Run("missing file → error", func(t *testing.T) {
		err := parseJson(&Config{}, []string{"-c", filepath.Join(dir, "nope.json")}, noEnv)
		require.Error(t, err)
	})
}

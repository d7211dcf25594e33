package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/todopoc/internal/flagx"
	"github.com/dmitrijs2005/todopoc/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent fields keep
// the value from the previous layer.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	DatabaseDriver     string         `json:"database_driver"`
	DatabaseDSN        string         `json:"database_dsn"`
	VerificationExpiry timex.Duration `json:"verification_expiry"`
	ShutdownTimeout    timex.Duration `json:"shutdown_timeout"`
	LogLevel           string         `json:"log_level"`
	LogFormat          string         `json:"log_format"`

	Notifier          string         `json:"notifier"`
	NotifyAttempts    int            `json:"notify_attempts"`
	NotifyRetryDelay  timex.Duration `json:"notify_retry_delay"`
	NotifyQueueSize   int            `json:"notify_queue_size"`
	EmailJSEndpoint   string         `json:"emailjs_endpoint"`
	EmailJSServiceID  string         `json:"emailjs_service_id"`
	EmailJSTemplateID string         `json:"emailjs_template_id"`
	EmailJSPublicKey  string         `json:"emailjs_public_key"`
	EmailJSPrivateKey string         `json:"emailjs_private_key"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
}

// parseJson overlays the JSON file named by -c/-config, falling back to
// TODOPOC_CONFIG. No path means nothing to load.
func parseJson(config *Config, args []string, lookupEnv func(string) (string, bool)) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		path, _ = lookupEnv(envPrefix + "CONFIG")
	}
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setDuration(&config.VerificationExpiry, c.VerificationExpiry)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	setString(&config.Notifier, c.Notifier)
	setInt(&config.NotifyAttempts, c.NotifyAttempts)
	setDuration(&config.NotifyRetryDelay, c.NotifyRetryDelay)
	setInt(&config.NotifyQueueSize, c.NotifyQueueSize)
	setString(&config.EmailJSEndpoint, c.EmailJSEndpoint)
	setString(&config.EmailJSServiceID, c.EmailJSServiceID)
	setString(&config.EmailJSTemplateID, c.EmailJSTemplateID)
	setString(&config.EmailJSPublicKey, c.EmailJSPublicKey)
	setString(&config.EmailJSPrivateKey, c.EmailJSPrivateKey)

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}

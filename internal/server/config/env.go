package config

import (
	"fmt"
	"strconv"
	"time"
)

const envPrefix = "TODOPOC_"

// parseEnv overlays TODOPOC_* environment variables. Secrets such as the
// EmailJS private key are expected to arrive this way rather than on the
// command line.
func parseEnv(config *Config, lookupEnv func(string) (string, bool)) error {
	strs := map[string]*string{
		"HTTP_ADDR":           &config.EndpointAddrHTTP,
		"DATABASE_DRIVER":     &config.DatabaseDriver,
		"DATABASE_DSN":        &config.DatabaseDSN,
		"LOG_LEVEL":           &config.LogLevel,
		"LOG_FORMAT":          &config.LogFormat,
		"NOTIFIER":            &config.Notifier,
		"EMAILJS_ENDPOINT":    &config.EmailJSEndpoint,
		"EMAILJS_SERVICE_ID":  &config.EmailJSServiceID,
		"EMAILJS_TEMPLATE_ID": &config.EmailJSTemplateID,
		"EMAILJS_PUBLIC_KEY":  &config.EmailJSPublicKey,
		"EMAILJS_PRIVATE_KEY": &config.EmailJSPrivateKey,
		"S3_ROOT_USER":        &config.S3RootUser,
		"S3_ROOT_PASSWORD":    &config.S3RootPassword,
		"S3_BUCKET":           &config.S3Bucket,
		"S3_REGION":           &config.S3Region,
		"S3_BASE_ENDPOINT":    &config.S3BaseEndpoint,
	}
	for key, dst := range strs {
		if v, ok := lookupEnv(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"VERIFICATION_EXPIRY": &config.VerificationExpiry,
		"SHUTDOWN_TIMEOUT":    &config.ShutdownTimeout,
		"NOTIFY_RETRY_DELAY":  &config.NotifyRetryDelay,
	}
	for key, dst := range durations {
		v, ok := lookupEnv(envPrefix + key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = d
	}

	ints := map[string]*int{
		"NOTIFY_ATTEMPTS":   &config.NotifyAttempts,
		"NOTIFY_QUEUE_SIZE": &config.NotifyQueueSize,
	}
	for key, dst := range ints {
		v, ok := lookupEnv(envPrefix + key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = n
	}

	return nil
}

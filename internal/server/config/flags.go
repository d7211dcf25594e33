package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/todopoc/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-D string   database driver: pgx | sqlite
//	-d string   database DSN
//	-x int      verification code validity, minutes
//	-n string   notifier: log | emailjs | s3
//	-l string   log level: debug | info | warn | error
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Only these flags are read, so -c/-config and foreign flags pass through.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-D", "-d", "-x", "-n", "-l", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	expiry := fs.Int("x", int(config.VerificationExpiry.Minutes()), "verification code validity (in minutes)")

	fs.StringVar(&config.Notifier, "n", config.Notifier, "verification notifier")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 outbox bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// minute granularity on the command line; finer values come from JSON or env
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "x" {
			config.VerificationExpiry = time.Duration(*expiry) * time.Minute
		}
	})

	return nil
}

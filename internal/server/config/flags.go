package config

import (
	"flag"
	"os"
	"time"

	"mydiary/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   HMAC secret key
//	-t int      session token validity, minutes
//	-w int      submission cooldown, seconds
//	-n int      daily submission cap per submitter (0 disables)
//	-p int      public listing page size
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-w", "-n", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session validity duration (in minutes)")
	cooldown := fs.Int("w", int(config.MessageCooldown.Seconds()), "submission cooldown (in seconds)")

	fs.Int64Var(&config.DailySubmissionCap, "n", config.DailySubmissionCap, "daily submission cap per submitter")
	fs.IntVar(&config.PageSize, "p", config.PageSize, "public listing page size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
	config.MessageCooldown = time.Duration(*cooldown) * time.Second
}

package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophvault/internal/flagx"
)

// Flags recognized by parseFlags. Either one or two leading dashes work.
var (
	valueFlags = []string{
		"-d", "--d", "-dsn", "--dsn",
		"-l", "--l", "-log-level", "--log-level",
		"-access-rotation", "--access-rotation",
		"-refresh-rotation", "--refresh-rotation",
		"-access-ttl", "--access-ttl",
		"-refresh-ttl", "--refresh-ttl",
	}
	switchFlags = []string{"-standard-glue", "--standard-glue"}
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-d, -dsn string          SQLite database DSN
//	-l, -log-level string    log level
//	-access-rotation dur     access signing key lifetime
//	-refresh-rotation dur    refresh signing key lifetime
//	-access-ttl dur          access token lifetime
//	-refresh-ttl dur         refresh token lifetime
//	-standard-glue           executable WHERE separators
//
// Arguments not naming one of these flags are ignored, so subcommands and
// their own flags can share the command line.
func parseFlags(config *Config, args []string) error {
	filtered := flagx.FilterArgs(args, valueFlags, switchFlags...)

	fs := flag.NewFlagSet("gophvault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DatabaseDSN, "dsn", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.DurationVar(&config.AccessKeyRotation, "access-rotation", config.AccessKeyRotation, "access signing key lifetime")
	fs.DurationVar(&config.RefreshKeyRotation, "refresh-rotation", config.RefreshKeyRotation, "refresh signing key lifetime")
	fs.DurationVar(&config.AccessTokenTTL, "access-ttl", config.AccessTokenTTL, "access token lifetime")
	fs.DurationVar(&config.RefreshTokenTTL, "refresh-ttl", config.RefreshTokenTTL, "refresh token lifetime")
	fs.BoolVar(&config.StandardGlue, "standard-glue", config.StandardGlue, "join WHERE fragments with a space")

	return fs.Parse(filtered)
}

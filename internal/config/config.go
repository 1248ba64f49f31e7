// Package config handles configuration for the gophvault command,
// including defaults, a JSON or YAML file overlay and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/gophvault/internal/auth"
)

// Config holds runtime settings.
//
// Fields:
//   - DatabaseDSN: SQLite database path or DSN.
//   - LogLevel: one of debug, info, warn, error.
//   - AccessKeyRotation / RefreshKeyRotation: signing key lifetimes.
//   - AccessTokenTTL / RefreshTokenTTL: token lifetimes.
//   - StandardGlue: join WHERE fragments with a space instead of ", ".
type Config struct {
	DatabaseDSN        string
	LogLevel           string
	AccessKeyRotation  time.Duration
	RefreshKeyRotation time.Duration
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	StandardGlue       bool
}

// LoadDefaults populates Config with local defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "gophvault.db"
	c.LogLevel = "info"
	c.AccessKeyRotation = auth.DefaultSettings.AccessRotation
	c.RefreshKeyRotation = auth.DefaultSettings.RefreshRotation
	c.AccessTokenTTL = auth.DefaultSettings.AccessTTL
	c.RefreshTokenTTL = auth.DefaultSettings.RefreshTTL
	c.StandardGlue = false
}

// Load builds a Config by applying defaults, then overlaying values from the
// optional file named by -c/-config and finally from the flags in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// KeySettings converts the token settings for the key manager.
func (c *Config) KeySettings() auth.Settings {
	return auth.Settings{
		AccessRotation:  c.AccessKeyRotation,
		RefreshRotation: c.RefreshKeyRotation,
		AccessTTL:       c.AccessTokenTTL,
		RefreshTTL:      c.RefreshTokenTTL,
	}
}

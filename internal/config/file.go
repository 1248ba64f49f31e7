package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/gophvault/internal/flagx"
	"github.com/dmitrijs2005/gophvault/internal/timex"
)

// FileConfig is the layout of a config file. Durations accept both strings
// such as "15m" and integer nanoseconds. Absent fields leave the current
// value untouched.
type FileConfig struct {
	DatabaseDSN        *string         `json:"database_dsn" yaml:"database_dsn"`
	LogLevel           *string         `json:"log_level" yaml:"log_level"`
	AccessKeyRotation  *timex.Duration `json:"access_key_rotation" yaml:"access_key_rotation"`
	RefreshKeyRotation *timex.Duration `json:"refresh_key_rotation" yaml:"refresh_key_rotation"`
	AccessTokenTTL     *timex.Duration `json:"access_token_ttl" yaml:"access_token_ttl"`
	RefreshTokenTTL    *timex.Duration `json:"refresh_token_ttl" yaml:"refresh_token_ttl"`
	StandardGlue       *bool           `json:"standard_glue" yaml:"standard_glue"`
}

// parseFile overlays the file named by -c/-config in args onto config.
// Files ending in .yaml or .yml are read as YAML, anything else as JSON.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	if c.AccessKeyRotation != nil {
		config.AccessKeyRotation = c.AccessKeyRotation.Duration
	}
	if c.RefreshKeyRotation != nil {
		config.RefreshKeyRotation = c.RefreshKeyRotation.Duration
	}
	if c.AccessTokenTTL != nil {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.RefreshTokenTTL != nil {
		config.RefreshTokenTTL = c.RefreshTokenTTL.Duration
	}
	if c.StandardGlue != nil {
		config.StandardGlue = *c.StandardGlue
	}
}

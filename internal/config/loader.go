package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Load reads a .env file from the working directory if one exists, then
// parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logrus.Warnf("error loading .env file: %v", err)
		}
	} else {
		logrus.Debugf("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return cfg, nil
}

// Validate checks values the environment parser can't.
func (c *Config) Validate() error {
	switch c.Backend {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("invalid %sBACKEND: %q (must be sqlite or redis)", EnvPrefix, c.Backend)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid %sLOG_LEVEL: %w", EnvPrefix, err)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid %sLOG_FORMAT: %q (must be text or json)", EnvPrefix, c.LogFormat)
	}

	if c.TickInterval <= 0 {
		return fmt.Errorf("invalid %sTICK_INTERVAL: %s (must be positive)", EnvPrefix, c.TickInterval)
	}

	if c.Backend == "redis" && c.RedisAddr == "" {
		return fmt.Errorf("%sREDIS_ADDR is required for the redis backend", EnvPrefix)
	}
	return nil
}

// ApplyFlags overrides values with any persistent flags set on cmd.
func (c *Config) ApplyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if f := flags.Lookup("db"); f != nil && f.Changed {
		c.DBPath = f.Value.String()
	}
	if f := flags.Lookup("backend"); f != nil && f.Changed {
		c.Backend = f.Value.String()
	}
	if f := flags.Lookup("log-level"); f != nil && f.Changed {
		c.LogLevel = f.Value.String()
	}
}

package config

import "time"

// EnvPrefix is prepended to every variable name below.
const EnvPrefix = "METROFOCUS_"

// Config holds the runtime configuration, read from METROFOCUS_* variables.
type Config struct {
	// Persistence
	Backend        string `env:"BACKEND" envDefault:"sqlite"`
	DBPath         string `env:"DB"`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"metrofocus:"`
	RedisRetries   uint64 `env:"REDIS_MAX_RETRIES" envDefault:"5"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`

	// Metrics endpoint; empty disables it.
	MetricsAddr string `env:"METRICS_ADDR"`

	// Session timing
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`

	// Optional YAML furniture catalog replacing the built-in one.
	CatalogPath string `env:"CATALOG"`
}

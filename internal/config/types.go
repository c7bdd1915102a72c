package config

import "time"

// Config is the complete sipolgar configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	UI      UIConfig      `yaml:"ui"`
}

// APIConfig configures the backend client.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	// RateLimit is requests per second; 0 disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
	// Offline fails every request without dialling.
	Offline bool        `yaml:"offline"`
	Retry   RetryConfig `yaml:"org_unit_retry"`
}

// RetryConfig configures retries of organisational unit lookups.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	Delay      time.Duration `yaml:"delay"`
}

// Storage drivers.
const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// StorageConfig selects where session keys are persisted.
type StorageConfig struct {
	Driver    string `yaml:"driver"`
	Path      string `yaml:"path,omitempty"`
	RedisURL  string `yaml:"redis_url,omitempty"`
	KeyPrefix string `yaml:"key_prefix,omitempty"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// UIConfig configures terminal output.
type UIConfig struct {
	NoColor        bool `yaml:"no_color"`
	NonInteractive bool `yaml:"non_interactive"`
}

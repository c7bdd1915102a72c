package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values.
const (
	DefaultBaseURL       = "https://demo.sosiogrow.my.id/api/v1"
	DefaultTimeout       = 15 * time.Second
	DefaultProbeTimeout  = 3 * time.Second
	DefaultRateLimit     = 5.0
	DefaultBurst         = 5
	DefaultOrgRetries    = 2
	DefaultOrgRetryDelay = time.Second

	DefaultStorageDriver = DriverFile
	DefaultKeyPrefix     = "sipolgar"
	SessionFileName      = "session.json"

	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"

	// HomeEnv overrides the configuration directory.
	HomeEnv        = "SIPOLGAR_HOME"
	ConfigFileName = "config.yaml"
	EnvFileName    = ".env"
	homeDirName    = ".sipolgar"
)

// NewDefaultConfig returns a Config with every field at its default.
// The storage path is filled in by the loader once the home directory is
// known.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      DefaultBaseURL,
			Timeout:      DefaultTimeout,
			ProbeTimeout: DefaultProbeTimeout,
			RateLimit:    DefaultRateLimit,
			Burst:        DefaultBurst,
			Retry: RetryConfig{
				MaxRetries: DefaultOrgRetries,
				Delay:      DefaultOrgRetryDelay,
			},
		},
		Storage: StorageConfig{
			Driver:    DefaultStorageDriver,
			KeyPrefix: DefaultKeyPrefix,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// HomeDir returns the configuration directory: $SIPOLGAR_HOME, or
// ~/.sipolgar.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return filepath.Clean(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeDirName), nil
}

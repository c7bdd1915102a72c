package config

import (
	"net/url"
	"slices"
	"strings"

	"go.uber.org/zap/zapcore"
)

var (
	validDrivers    = []string{DriverFile, DriverMemory, DriverRedis}
	validLogFormats = []string{"console", "json"}
)

// Validate checks cfg and returns every problem found as ValidationErrors.
func Validate(cfg *Config) error {
	var errs ValidationErrors
	add := errs.add

	if u, err := url.Parse(cfg.API.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		add("api.base_url", "must be an absolute http or https URL", cfg.API.BaseURL)
	}
	if cfg.API.Timeout <= 0 {
		add("api.timeout", "must be positive", cfg.API.Timeout)
	}
	if cfg.API.ProbeTimeout <= 0 {
		add("api.probe_timeout", "must be positive", cfg.API.ProbeTimeout)
	}
	if cfg.API.RateLimit < 0 {
		add("api.rate_limit", "must not be negative", cfg.API.RateLimit)
	}
	if cfg.API.RateLimit > 0 && cfg.API.Burst < 1 {
		add("api.burst", "must be at least 1 when rate limiting", cfg.API.Burst)
	}
	if cfg.API.Retry.MaxRetries < 0 {
		add("api.org_unit_retry.max_retries", "must not be negative", cfg.API.Retry.MaxRetries)
	}
	if cfg.API.Retry.Delay < 0 {
		add("api.org_unit_retry.delay", "must not be negative", cfg.API.Retry.Delay)
	}

	switch {
	case !slices.Contains(validDrivers, cfg.Storage.Driver):
		add("storage.driver", "must be one of "+strings.Join(validDrivers, ", "), cfg.Storage.Driver)
	case cfg.Storage.Driver == DriverFile && cfg.Storage.Path == "":
		add("storage.path", "required for the file driver", nil)
	case cfg.Storage.Driver == DriverRedis && cfg.Storage.RedisURL == "":
		add("storage.redis_url", "required for the redis driver", nil)
	}

	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		add("log.level", "must be debug, info, warn or error", cfg.Log.Level)
	}
	if !slices.Contains(validLogFormats, cfg.Log.Format) {
		add("log.format", "must be console or json", cfg.Log.Format)
	}

	return errs.err()
}

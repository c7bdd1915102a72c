package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sipolgar/sipolgar/internal/logger"
)

// Environment variables that override config.yaml.
const (
	EnvAPIURL     = "SIPOLGAR_API_URL"
	EnvAPITimeout = "SIPOLGAR_API_TIMEOUT"
	EnvStore      = "SIPOLGAR_STORE"
	EnvRedisURL   = "SIPOLGAR_REDIS_URL"
	EnvLogLevel   = "SIPOLGAR_LOG_LEVEL"
	EnvNoColor    = "SIPOLGAR_NO_COLOR"
	EnvOffline    = "SIPOLGAR_OFFLINE"
)

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// Loader reads config.yaml and .env from a home directory.
type Loader struct {
	home   string
	lookup LookupFunc
	log    *zap.Logger
}

// NewLoader creates a Loader for home. A nil lookup reads the process
// environment.
func NewLoader(home string, lookup LookupFunc, log *zap.Logger) *Loader {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Loader{home: filepath.Clean(home), lookup: lookup, log: logger.OrNop(log)}
}

// Path returns the config.yaml path.
func (l *Loader) Path() string {
	return filepath.Join(l.home, ConfigFileName)
}

// Load returns defaults overlaid with config.yaml, then .env, then the
// process environment. A missing file is not an error; invalid YAML is.
func (l *Loader) Load() (*Config, error) {
	cfg := NewDefaultConfig()

	loaded, err := loadYAMLFile(l.Path(), cfg)
	if err != nil {
		return nil, err
	}
	if !loaded {
		l.log.Debug("config file not found, using defaults", zap.String("path", l.Path()))
	}

	dotenv, err := l.readDotenv()
	if err != nil {
		l.log.Warn("ignoring unreadable .env", zap.Error(err))
	}
	lookup := func(key string) (string, bool) {
		if v, ok := l.lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := applyEnvOverrides(cfg, lookup); err != nil {
		return nil, err
	}

	if cfg.Storage.Driver == DriverFile && cfg.Storage.Path == "" {
		cfg.Storage.Path = filepath.Join(l.home, SessionFileName)
	}
	return cfg, nil
}

func (l *Loader) readDotenv() (map[string]string, error) {
	path := filepath.Join(l.home, EnvFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return godotenv.Read(path)
}

// loadYAMLFile decodes path into target. It reports false when the file
// does not exist.
func loadYAMLFile(path string, target *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidYAML, path, err)
	}
	return true, nil
}

func applyEnvOverrides(cfg *Config, lookup LookupFunc) error {
	var errs ValidationErrors

	if v, ok := nonEmpty(lookup, EnvAPIURL); ok {
		cfg.API.BaseURL = v
	}
	if v, ok := nonEmpty(lookup, EnvAPITimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs.add(EnvAPITimeout, "is not a duration", v)
		} else {
			cfg.API.Timeout = d
		}
	}
	if v, ok := nonEmpty(lookup, EnvStore); ok {
		cfg.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := nonEmpty(lookup, EnvRedisURL); ok {
		cfg.Storage.RedisURL = v
	}
	if v, ok := nonEmpty(lookup, EnvLogLevel); ok {
		cfg.Log.Level = strings.ToLower(v)
	}
	for _, b := range []struct {
		key  string
		dest *bool
	}{
		{EnvNoColor, &cfg.UI.NoColor},
		{EnvOffline, &cfg.API.Offline},
	} {
		v, ok := nonEmpty(lookup, b.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			errs.add(b.key, "is not a boolean", v)
			continue
		}
		*b.dest = parsed
	}

	return errs.err()
}

func nonEmpty(lookup LookupFunc, key string) (string, bool) {
	v, ok := lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

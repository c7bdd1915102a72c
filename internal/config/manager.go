package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sipolgar/sipolgar/internal/logger"
)

// Manager owns the loaded configuration and persists edits to config.yaml.
type Manager struct {
	mu     sync.RWMutex
	loader *Loader
	cfg    *Config
	log    *zap.Logger
}

// NewManager creates a Manager for the given home directory.
func NewManager(home string, lookup LookupFunc, log *zap.Logger) *Manager {
	log = logger.OrNop(log)
	return &Manager{loader: NewLoader(home, lookup, log), log: log}
}

// Load reads and validates the configuration.
func (m *Manager) Load() (*Config, error) {
	cfg, err := m.loader.Load()
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	return cfg, nil
}

// Get returns a copy of the loaded configuration, or nil before Load.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cfg == nil {
		return nil
	}
	c := *m.cfg
	return &c
}

// Path returns the config.yaml path.
func (m *Manager) Path() string {
	return m.loader.Path()
}

// Set assigns value to a dotted key such as "api.base_url" and validates the
// result. Nothing is written until Save.
func (m *Manager) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		return ErrNotInitialized
	}

	next := *m.cfg
	if err := setField(&next, key, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := Validate(&next); err != nil {
		return err
	}
	m.cfg = &next
	return nil
}

// Save writes the loaded configuration to config.yaml atomically.
func (m *Manager) Save() error {
	m.mu.RLock()
	cfg := m.cfg
	m.mu.RUnlock()
	if cfg == nil {
		return ErrNotInitialized
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	path := m.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := atomicWrite(path, data); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	m.log.Debug("config saved", zap.String("path", path))
	return nil
}

func setField(cfg *Config, key, value string) error {
	invalid := func(msg string) error {
		return ValidationErrors{{Key: key, Problem: msg, Value: value}}
	}
	duration := func(dest *time.Duration) error {
		d, err := time.ParseDuration(value)
		if err != nil {
			return invalid("is not a duration")
		}
		*dest = d
		return nil
	}
	boolean := func(dest *bool) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalid("is not a boolean")
		}
		*dest = b
		return nil
	}
	integer := func(dest *int) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid("is not an integer")
		}
		*dest = n
		return nil
	}

	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout":
		return duration(&cfg.API.Timeout)
	case "api.probe_timeout":
		return duration(&cfg.API.ProbeTimeout)
	case "api.rate_limit":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return invalid("is not a number")
		}
		cfg.API.RateLimit = f
	case "api.burst":
		return integer(&cfg.API.Burst)
	case "api.offline":
		return boolean(&cfg.API.Offline)
	case "api.org_unit_retry.max_retries":
		return integer(&cfg.API.Retry.MaxRetries)
	case "api.org_unit_retry.delay":
		return duration(&cfg.API.Retry.Delay)
	case "storage.driver":
		cfg.Storage.Driver = strings.ToLower(value)
	case "storage.path":
		cfg.Storage.Path = value
	case "storage.redis_url":
		cfg.Storage.RedisURL = value
	case "storage.key_prefix":
		cfg.Storage.KeyPrefix = value
	case "log.level":
		cfg.Log.Level = strings.ToLower(value)
	case "log.format":
		cfg.Log.Format = strings.ToLower(value)
	case "ui.no_color":
		return boolean(&cfg.UI.NoColor)
	case "ui.non_interactive":
		return boolean(&cfg.UI.NonInteractive)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// atomicWrite writes data to a temp file in the target directory and renames
// it over path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".sipolgar-config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // cleanup on error path

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return os.Rename(tmpName, path)
}

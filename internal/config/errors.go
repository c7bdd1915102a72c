// Package config loads sipolgar settings from config.yaml, a .env file and
// SIPOLGAR_* environment variables, applies defaults and validates them.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for configuration operations.
var (
	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrInvalidYAML indicates invalid YAML syntax in the configuration file.
	ErrInvalidYAML = errors.New("config: invalid YAML syntax")

	// ErrUnknownKey indicates a dotted key that names no setting.
	ErrUnknownKey = errors.New("config: unknown key")

	// ErrNotInitialized indicates the Manager has not been loaded.
	ErrNotInitialized = errors.New("config: manager not initialized, call Load() first")
)

// FieldError is one rejected setting. It matches ErrInvalidConfig.
type FieldError struct {
	Key     string
	Problem string
	Value   any
}

func (e FieldError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s %s (got %v)", e.Key, e.Problem, e.Value)
	}
	return fmt.Sprintf("%s %s", e.Key, e.Problem)
}

func (e FieldError) Unwrap() error { return ErrInvalidConfig }

// ValidationErrors collects every rejected setting of one load or edit.
type ValidationErrors []FieldError

func (v *ValidationErrors) add(key, problem string, value any) {
	*v = append(*v, FieldError{Key: key, Problem: problem, Value: value})
}

// err returns v as an error, or nil when nothing was rejected.
func (v ValidationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return "config: " + strings.Join(parts, "; ")
}

// Is matches ErrInvalidConfig.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Package store provides the durable key-value persistence used to mirror
// session state across restarts. Keys and values are plain strings.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrStorage is the sentinel wrapped by every backend failure.
var ErrStorage = errors.New("store: storage failure")

// Store is a string key-value store. Get reports whether the key exists.
// Remove ignores keys that are absent.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// StorageError describes a failed backend operation.
type StorageError struct {
	Op  string
	Key string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store: %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes every StorageError match ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Key: key, Err: err}
}

package kv

import (
	"context"
	"errors"
	"fmt"
)

// Store is the persistence contract behind the in-memory store: one JSON
// document per key. Load reports found=false for a key never saved.
type Store interface {
	Load(ctx context.Context, key string) (data []byte, found bool, err error)
	Save(ctx context.Context, key string, data []byte) error
}

// PersistenceError is returned by every backend for storage failures. The
// store does not interpret it; callers match it with errors.As.
type PersistenceError struct {
	Backend string
	Op      string
	Key     string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("kv: %s %s %q: %v", e.Backend, e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func Wrap(backend, op, key string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Backend: backend, Op: op, Key: key, Err: err}
}

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

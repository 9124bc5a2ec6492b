package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var (
	ErrInvalidKey = errors.New("kv: key must match [a-z0-9_-]+")
	validKey      = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// File stores each key as <dir>/<key>.json. Writes go to a temporary file
// that is renamed over the target, so a crash never leaves half a document.
type File struct {
	dir string
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, Wrap("file", "init", dir, err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *File) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, Wrap("file", "load", key, err)
	}
	p, err := f.path(key)
	if err != nil {
		return nil, false, Wrap("file", "load", key, err)
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Wrap("file", "load", key, err)
	}
	return data, true, nil
}

func (f *File) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return Wrap("file", "save", key, err)
	}
	p, err := f.path(key)
	if err != nil {
		return Wrap("file", "save", key, err)
	}
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return Wrap("file", "save", key, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return Wrap("file", "save", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return Wrap("file", "save", key, err)
	}
	if err := tmp.Close(); err != nil {
		return Wrap("file", "save", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return Wrap("file", "save", key, err)
	}
	return nil
}

var _ Store = (*File)(nil)

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local keeps objects under dir and serves them from baseURL.
type Local struct {
	root     string
	baseURL  string
	location Location
}

func NewLocal(dir, baseURL string, loc Location) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir failed: %w", err)
	}
	return &Local{
		root:     dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		location: loc,
	}, nil
}

// Root is the directory served for this location.
func (l *Local) Root() string {
	return l.root
}

func (l *Local) Save(_ context.Context, key string, body io.Reader, _ string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	target := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create object dir failed: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !l.location.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(target, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrObjectExists
		}
		return fmt.Errorf("open object file failed: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return fmt.Errorf("write object failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close object file failed: %w", err)
	}
	return nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(l.root, filepath.FromSlash(key))); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete object failed: %w", err)
	}
	return nil
}

func (l *Local) URL(_ context.Context, key string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return l.baseURL + "/" + key, nil
}

func (l *Local) Ping(_ context.Context) error {
	info, err := os.Stat(l.root)
	if err != nil {
		return fmt.Errorf("stat storage root failed: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage root %s is not a directory", l.root)
	}
	return nil
}

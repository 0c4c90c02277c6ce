package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"artflight/internal/metrics"
	"artflight/internal/storage"
)

// Upload is an incoming file. Size is the declared size in bytes.
type Upload struct {
	Body     io.Reader
	Size     int64
	Filename string
}

type mediaStore struct {
	store    storage.Storage
	maxBytes int64
	log      *slog.Logger
}

// save validates u as an image and writes it under folder, returning its key.
func (m *mediaStore) save(ctx context.Context, folder, field string, u *Upload) (string, error) {
	if u == nil || u.Body == nil {
		return "", invalid(field, "no file was submitted")
	}
	if u.Size == 0 {
		return "", invalid(field, "the submitted file is empty")
	}
	if m.maxBytes > 0 && u.Size > m.maxBytes {
		return "", invalid(field, fmt.Sprintf("file exceeds the %d MB upload limit", m.maxBytes>>20))
	}

	body := u.Body
	if m.maxBytes > 0 {
		body = io.LimitReader(body, m.maxBytes+1)
	}
	mt, body, err := storage.SniffImage(body)
	if err != nil {
		if errors.Is(err, storage.ErrNotImage) {
			return "", invalid(field, "upload a valid image")
		}
		return "", err
	}

	counted := &countingReader{r: body}
	key := storage.NewObjectKey(folder, mt.Extension())
	if err := m.store.Save(ctx, key, counted, mt.String()); err != nil {
		return "", fmt.Errorf("store %s failed: %w", field, err)
	}
	if m.maxBytes > 0 && counted.n > m.maxBytes {
		m.remove(ctx, key)
		return "", invalid(field, fmt.Sprintf("file exceeds the %d MB upload limit", m.maxBytes>>20))
	}

	metrics.MediaUploadBytes.Observe(float64(counted.n))
	return key, nil
}

// url resolves key, returning nil for an empty key.
func (m *mediaStore) url(ctx context.Context, key string) (*string, error) {
	if key == "" {
		return nil, nil
	}
	u, err := m.store.URL(ctx, key)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// remove deletes key and logs failures; the row referencing it is already gone.
func (m *mediaStore) remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := m.store.Delete(ctx, key); err != nil {
		m.log.Warn("delete stored object failed", "key", key, "error", err)
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

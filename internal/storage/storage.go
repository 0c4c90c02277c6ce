// Package storage stores uploaded media and static assets on local disk or in
// an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	PrefixStatic = "static"
	PrefixMedia  = "media"

	FolderArtImages = "art_images"
	FolderAvatars   = "avatars"

	sniffLen = 3072
)

// rasterTypes are the accepted upload formats. Vector and markup based image
// types such as SVG are excluded since they can carry script.
var rasterTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/tiff",
}

var (
	ErrObjectExists = errors.New("object already exists")
	ErrNotImage     = errors.New("file is not a supported image")
	ErrInvalidKey   = errors.New("invalid object key")
)

// Storage is a named bucket location. Keys are relative to the location
// prefix, e.g. "art_images/<uuid>.png".
type Storage interface {
	Save(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
	Ping(ctx context.Context) error
}

// Location describes how objects under one prefix are written.
type Location struct {
	Prefix    string
	Public    bool
	Overwrite bool
}

func MediaLocation(public bool) Location {
	return Location{Prefix: PrefixMedia, Public: public, Overwrite: false}
}

func StaticLocation() Location {
	return Location{Prefix: PrefixStatic, Public: true, Overwrite: true}
}

// NewObjectKey builds a collision-free key inside folder keeping ext.
func NewObjectKey(folder, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(folder, uuid.NewString()+strings.ToLower(ext))
}

// SniffImage detects the content type of r from its first bytes and accepts
// raster images only. The returned
// reader replays those bytes followed by the rest of r.
func SniffImage(r io.Reader) (*mimetype.MIME, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("read upload header failed: %w", err)
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	if !isRaster(mt) {
		return nil, nil, ErrNotImage
	}
	return mt, io.MultiReader(bytes.NewReader(head), r), nil
}

func isRaster(mt *mimetype.MIME) bool {
	for _, t := range rasterTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}

func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

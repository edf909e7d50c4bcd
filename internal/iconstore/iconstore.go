// Package iconstore keeps user icon images in object storage or on disk.
package iconstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// MaxBytes is the largest icon accepted for upload.
const MaxBytes = 5 << 20

var (
	ErrUnsupported = errors.New("iconstore: unsupported image format")
	ErrTooLarge    = errors.New("iconstore: image too large")
)

// Store is where icon bytes live. Keys are slash separated and produced by
// NewKey.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	// URL returns an address a browser can load the icon from.
	URL(ctx context.Context, key string) (string, error)
	// Delete is a no-op for a missing key.
	Delete(ctx context.Context, key string) error
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
}

// NewKey returns a fresh storage key for an icon of userID.
func NewKey(userID uuid.UUID, contentType string) string {
	return fmt.Sprintf("icons/%s/%s%s", userID, uuid.New(), extensions[contentType])
}

// Sniff reads an uploaded image and reports its content type. Only PNG, JPEG
// and GIF images no larger than MaxBytes are accepted.
func Sniff(r io.Reader) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("iconstore: read upload: %w", err)
	}
	if len(data) > MaxBytes {
		return nil, "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	if _, ok := extensions[contentType]; !ok {
		return nil, "", ErrUnsupported
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, "", ErrUnsupported
	}

	return data, contentType, nil
}

// Package storage persists listing images and resolves them to URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned for keys that are empty or escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// ImageStore saves uploaded images under opaque keys.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewKey builds a unique object key for an upload. Only the extension of
// the client filename is kept.
func NewKey(kind string, userID uint, filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return fmt.Sprintf("uploads/%s/%d/%d_%s%s", kind, userID, time.Now().Unix(), uuid.New().String(), ext)
}

// cleanKey normalizes key to a relative slash path inside the store.
func cleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" || strings.Contains(key, `\`) {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

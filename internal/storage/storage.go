// Package storage keeps the raw bytes of uploaded resumes.
package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned for keys that are empty or escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// BlobStore persists uploaded documents under opaque keys.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// NewKey returns a collision-free storage key for an upload. The client file
// name is only used for its extension; the name itself is kept as metadata
// by the caller.
func NewKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !validExt(ext) {
		ext = ""
	}
	return uuid.NewString() + ext
}

func validExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 10 {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// validateKey rejects keys that could address anything outside the store.
func validateKey(key string) error {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return ErrInvalidKey
	}
	return nil
}

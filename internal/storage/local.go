package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes blobs as files in a single directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory if needed and returns a store rooted at it.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Put writes data to a temporary file and renames it into place.
func (s *LocalStore) Put(_ context.Context, key, _ string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Delete removes a blob. Deleting a missing blob is not an error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

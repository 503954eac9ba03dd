package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	catalogapp "github.com/vetcollars/storefront/internal/application/catalog"
)

// LocalURLPrefix is the path the HTTP router serves local uploads under
const LocalURLPrefix = "/uploads"

var _ catalogapp.ImageStorage = (*LocalStorage)(nil)

// LocalStorage writes images to a directory served by the HTTP server.
// It is meant for development and single-node installs.
type LocalStorage struct {
	dir           string
	publicBaseURL string
}

// NewLocalStorage creates the directory if needed. An empty publicBaseURL
// yields root-relative URLs under LocalURLPrefix.
func NewLocalStorage(dir, publicBaseURL string) (*LocalStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = LocalURLPrefix
	}
	return &LocalStorage{dir: dir, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Dir returns the directory files are written to
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Put writes the object and returns its public URL
func (s *LocalStorage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	tmp := f.Name()

	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to store file: %w", err)
	}

	return s.publicBaseURL + "/" + key, nil
}

// Delete removes the object. Missing files are not an error.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// path maps a flat key to a file inside dir
func (s *LocalStorage) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	if key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

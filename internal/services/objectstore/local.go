package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/driftml/sweep-runner/internal/config"
)

// LocalObjectStore writes objects under the data directory. It exists so the
// whole workflow can run offline against the serve-mode services.
type LocalObjectStore struct {
	baseDir string
}

func NewLocalObjectStore(cfg *config.Config) (*LocalObjectStore, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data directory is not set")
	}

	baseDir := filepath.Join(cfg.DataDir, "store")
	if err := os.MkdirAll(baseDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create local store directory: %w", err)
	}

	return &LocalObjectStore{baseDir: baseDir}, nil
}

func (s *LocalObjectStore) Upload(ctx context.Context, key string, content []byte) (string, error) {
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", err
	}

	return "file://" + path, nil
}

func (s *LocalObjectStore) BaseUri(keyPrefix string) string {
	return "file://" + filepath.Join(s.baseDir, filepath.FromSlash(keyPrefix))
}

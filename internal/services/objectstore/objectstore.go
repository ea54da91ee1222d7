package objectstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/driftml/sweep-runner/internal/config"
)

// ObjectStore stages prepared dataset files so remote training jobs can read
// them. Upload returns the URI the training service should be pointed at.
type ObjectStore interface {
	Upload(ctx context.Context, key string, content []byte) (string, error)
	BaseUri(keyPrefix string) string
}

func NewObjectStore(cfg *config.Config) (ObjectStore, error) {
	if strings.EqualFold(cfg.Filesystem, config.FilesystemLocal) {
		return NewLocalObjectStore(cfg)
	} else if strings.EqualFold(cfg.Filesystem, config.FilesystemS3) {
		return NewS3ObjectStore(cfg)
	}

	return nil, fmt.Errorf("invalid filesystem type: %s", cfg.Filesystem)
}

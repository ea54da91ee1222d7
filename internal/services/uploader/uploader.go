package uploader

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/driftml/sweep-runner/internal/services/objectstore"
	"github.com/gammazero/workerpool"
)

// Uploader pushes staged dataset files to the object store through a small
// worker pool.
type Uploader struct {
	wp    *workerpool.WorkerPool
	store objectstore.ObjectStore
}

type uploadResult struct {
	key string
	uri string
	err error
}

func NewUploader(store objectstore.ObjectStore, maxWorkers int) *Uploader {
	return &Uploader{
		wp:    workerpool.New(maxWorkers),
		store: store,
	}
}

func (u *Uploader) Stop() {
	u.wp.Stop()
}

// UploadFiles uploads each local path under its object key and blocks until
// every upload finished. The returned URIs are sorted by key so callers get a
// deterministic order.
func (u *Uploader) UploadFiles(ctx context.Context, files map[string]string) ([]string, error) {
	results := make(chan uploadResult, len(files))

	for key, path := range files {
		key, path := key, path
		u.wp.Submit(func() {
			content, err := os.ReadFile(path)
			if err != nil {
				results <- uploadResult{key: key, err: fmt.Errorf("failed to read %s: %w", path, err)}
				return
			}

			uri, err := u.store.Upload(ctx, key, content)
			results <- uploadResult{key: key, uri: uri, err: err}
		})
	}

	collected := make([]uploadResult, 0, len(files))
	for range files {
		collected = append(collected, <-results)
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].key < collected[j].key })

	uris := make([]string, 0, len(collected))
	for _, r := range collected {
		if r.err != nil {
			return nil, r.err
		}
		uris = append(uris, r.uri)
	}

	return uris, nil
}

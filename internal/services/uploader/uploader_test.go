package uploader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/driftml/sweep-runner/internal/config"
	"github.com/driftml/sweep-runner/internal/services/objectstore"
)

func newLocalStore(t *testing.T, dir string) *objectstore.LocalObjectStore {
	t.Helper()
	store, err := objectstore.NewLocalObjectStore(&config.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	return store
}

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestUploadFiles(t *testing.T) {
	dir := t.TempDir()
	store := newLocalStore(t, dir)

	up := NewUploader(store, 2)
	defer up.Stop()

	files := map[string]string{
		"sweep-data/train/x_train.csv": writeTempFile(t, dir, "x_train.csv", "1,2\n3,4\n"),
		"sweep-data/train/y_train.csv": writeTempFile(t, dir, "y_train.csv", "5\n6\n"),
		"sweep-data/test/x_test.csv":   writeTempFile(t, dir, "x_test.csv", "7,8\n"),
	}

	uris, err := up.UploadFiles(context.Background(), files)
	if err != nil {
		t.Fatalf("UploadFiles: %v", err)
	}
	if len(uris) != 3 {
		t.Fatalf("got %d uris, want 3", len(uris))
	}

	// URIs come back sorted by object key.
	want := []string{
		"file://" + filepath.Join(dir, "store", "sweep-data/test/x_test.csv"),
		"file://" + filepath.Join(dir, "store", "sweep-data/train/x_train.csv"),
		"file://" + filepath.Join(dir, "store", "sweep-data/train/y_train.csv"),
	}
	for i, uri := range want {
		if uris[i] != uri {
			t.Errorf("uris[%d] = %q, want %q", i, uris[i], uri)
		}
	}

	content, err := os.ReadFile(filepath.Join(dir, "store", "sweep-data", "train", "x_train.csv"))
	if err != nil {
		t.Fatalf("read uploaded object: %v", err)
	}
	if string(content) != "1,2\n3,4\n" {
		t.Errorf("uploaded content = %q", content)
	}
}

func TestUploadFilesMissingLocalFile(t *testing.T) {
	dir := t.TempDir()
	up := NewUploader(newLocalStore(t, dir), 2)
	defer up.Stop()

	_, err := up.UploadFiles(context.Background(), map[string]string{
		"sweep-data/train/x_train.csv": filepath.Join(dir, "does-not-exist.csv"),
	})
	if err == nil {
		t.Fatal("expected an error for a missing local file")
	}
}

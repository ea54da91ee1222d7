package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"go.uber.org/zap"
)

// Fetch downloads the raw dataset to destPath, showing a progress bar. The
// download is skipped when the file is already present.
func Fetch(ctx context.Context, rawUrl, destPath string, logger *zap.Logger) error {
	if _, err := os.Stat(destPath); err == nil {
		logger.Info("dataset already downloaded", zap.String("path", destPath))
		return nil
	}

	logger.Info("downloading dataset", zap.String("url", rawUrl))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawUrl, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dataset download returned %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return err
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	progress := mpb.New(mpb.WithWidth(64))
	bar := progress.AddBar(resp.ContentLength,
		mpb.PrependDecorators(
			decor.Name("dataset "),
			decor.CountersKibiByte("% .2f / % .2f"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	reader := bar.ProxyReader(resp.Body)
	defer reader.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}

	progress.Wait()
	return nil
}

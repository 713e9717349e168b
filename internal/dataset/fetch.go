package dataset

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
)

// Fetch downloads the dataset CSV to path unless it already exists.
// Transient HTTP failures are retried with backoff.
func Fetch(ctx context.Context, url, path string) error {
	if _, err := os.Stat(path); err == nil {
		log.Printf("dataset: %s already exists, skipping download", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	log.Printf("dataset: downloading %s", url)
	return retry.Do(
		func() error { return download(ctx, url, path) },
		retry.Context(ctx),
		retry.Attempts(4),
		retry.Delay(2*time.Second),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("dataset: download attempt %d failed: %v", n+1, err)
		}),
	)
}

func download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("download status=%d", res.StatusCode)
	}

	// Write to a temp file first so a partial download never shadows the
	// expected path.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, res.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	log.Printf("dataset: saved to %s", path)
	return nil
}

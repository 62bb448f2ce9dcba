// Package scheduler runs a bounded-concurrency set of downloads with
// per-item retry, isolating failures for non-critical items (assets) while
// surfacing them as fatal for critical ones (libraries, client jar, JRE).
package scheduler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/quasar/mclauncher/internal/checksum"
	"github.com/quasar/mclauncher/internal/httpx"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Item is a single file to materialize at Path, sourced from URL, with an
// optional expected SHA-1. Critical items abort the whole batch on failure;
// a non-critical item's failure is recorded on its Result and passed to the
// ItemDoneFunc without stopping the batch.
type Item struct {
	URL      string
	Path     string
	SHA1     string
	Size     int64
	Critical bool
}

// Result records the outcome of one item, in input order.
type Result struct {
	Item       Item
	Downloaded bool
	Bytes      int64
	Err        error
}

// ByteProgressFunc reports incremental bytes for a single large download
// (JRE archive, client jar). Asset-sized batches use item-completion
// progress instead, via ItemDoneFunc, to keep event rate bounded.
type ByteProgressFunc func(item Item, downloaded, total int64)

// ItemDoneFunc is invoked once per item, on success or isolated failure.
type ItemDoneFunc func(item Item, err error)

// Scheduler bounds concurrent downloads to Concurrency in-flight requests.
type Scheduler struct {
	HTTP        *httpx.Client
	Concurrency int
}

// Download executes items with at most Concurrency in flight. Completion
// order is non-deterministic; Results preserves input order so callers can
// assemble ordered output (e.g. a classpath) by iterating it directly. A
// critical item's failure aborts the batch and is returned as the error;
// non-critical failures are captured per-result only.
func (s *Scheduler) Download(ctx context.Context, items []Item, onByteProgress ByteProgressFunc, onItemDone ItemDoneFunc) ([]Result, error) {
	concurrency := s.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(items))
	sem := semaphore.NewWeighted(int64(concurrency))
	g, gctx := errgroup.WithContext(ctx)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			downloaded, n, err := s.downloadItem(item, onByteProgress)
			results[i] = Result{Item: item, Downloaded: downloaded, Bytes: n, Err: err}
			if onItemDone != nil {
				onItemDone(item, err)
			}
			if err != nil && item.Critical {
				return fmt.Errorf("download %s: %w", item.URL, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (s *Scheduler) downloadItem(item Item, onByteProgress ByteProgressFunc) (downloaded bool, n int64, err error) {
	if ok, err := checksum.Matches(item.Path, item.SHA1); err == nil && ok {
		return false, 0, nil
	} else if err != nil {
		return false, 0, err
	}

	if err := os.MkdirAll(filepath.Dir(item.Path), 0o755); err != nil {
		return false, 0, fmt.Errorf("mkdir: %w", err)
	}

	resp, err := s.HTTP.Get(item.URL)
	if err != nil {
		return false, 0, err
	}
	defer resp.Body.Close()

	tmp := item.Path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return false, 0, fmt.Errorf("create temp file: %w", err)
	}

	hasher := checksum.NewStreamingHasher()
	var written int64
	total := resp.ContentLength
	buf := make([]byte, 32*1024)
	for {
		nr, rerr := resp.Body.Read(buf)
		if nr > 0 {
			if _, werr := f.Write(buf[:nr]); werr != nil {
				f.Close()
				os.Remove(tmp)
				return false, written, fmt.Errorf("write: %w", werr)
			}
			hasher.Write(buf[:nr])
			written += int64(nr)
			if onByteProgress != nil {
				onByteProgress(item, written, total)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			f.Close()
			os.Remove(tmp)
			return false, written, fmt.Errorf("read: %w", rerr)
		}
	}
	f.Close()

	if item.SHA1 != "" && hasher.SHA1() != item.SHA1 {
		os.Remove(tmp)
		return false, written, fmt.Errorf("checksum mismatch for %s: expected %s, got %s", item.Path, item.SHA1, hasher.SHA1())
	}

	if err := os.Rename(tmp, item.Path); err != nil {
		os.Remove(tmp)
		return false, written, fmt.Errorf("rename into place: %w", err)
	}
	return true, written, nil
}

// FormatSpeed renders a bytes-per-second rate as a human-readable string.
func FormatSpeed(bytesPerSecond float64) string {
	return humanize.Bytes(uint64(bytesPerSecond)) + "/s"
}

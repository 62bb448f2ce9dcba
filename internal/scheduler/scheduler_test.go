package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/quasar/mclauncher/internal/checksum"
	"github.com/quasar/mclauncher/internal/httpx"
)

func TestDownloadSkipsExistingMatchingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	os.WriteFile(path, []byte("hello"), 0o644)

	sha, _ := shaOf("hello")
	s := &Scheduler{HTTP: httpx.New(), Concurrency: 2}
	results, err := s.Download(context.Background(), []Item{{Path: path, SHA1: sha}}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Downloaded {
		t.Error("expected item to be skipped as already cached")
	}
}

func TestDownloadFetchesMissingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	s := &Scheduler{HTTP: httpx.New(), Concurrency: 2}
	s.HTTP.SetObserver(nil)

	results, err := s.Download(context.Background(), []Item{{URL: srv.URL, Path: path}}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Downloaded {
		t.Error("expected file to be downloaded")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "payload" {
		t.Errorf("got %q", data)
	}
}

func TestDownloadCriticalFailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	s := &Scheduler{HTTP: httpx.New(), Concurrency: 1}
	s.HTTP.SetObserver(nil)
	items := []Item{{URL: srv.URL, Path: filepath.Join(dir, "a.bin"), Critical: true}}
	// the shared client's default retry policy runs before the error surfaces
	if _, err := s.Download(context.Background(), items, nil, nil); err == nil {
		t.Fatal("expected critical failure to surface as error")
	}
}

func TestDownloadNonCriticalFailureIsolated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	s := &Scheduler{HTTP: httpx.New(), Concurrency: 1}
	items := []Item{{URL: srv.URL, Path: filepath.Join(dir, "a.bin"), Critical: false}}
	results, err := s.Download(context.Background(), items, nil, nil)
	if err != nil {
		t.Fatalf("non-critical failure should not abort batch: %v", err)
	}
	if results[0].Err == nil {
		t.Error("expected the isolated failure to be recorded on the result")
	}
}

func shaOf(s string) (string, error) {
	h := checksum.NewStreamingHasher()
	h.Write([]byte(s))
	return h.SHA1(), nil
}

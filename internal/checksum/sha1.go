// Package checksum streams local files through SHA-1 for cache verification.
package checksum

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// SHA1 streams path into the hasher and returns its lower-case hex digest.
func SHA1(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// StreamingHasher accumulates a SHA-1 digest across successive Write calls,
// for callers (like the download scheduler) that verify a checksum while
// the file is still being written to disk.
type StreamingHasher struct {
	h io.Writer
	sum func() []byte
}

// NewStreamingHasher returns a hasher ready for incremental writes.
func NewStreamingHasher() *StreamingHasher {
	h := sha1.New()
	return &StreamingHasher{h: h, sum: func() []byte { return h.Sum(nil) }}
}

// Write feeds p into the running digest.
func (s *StreamingHasher) Write(p []byte) (int, error) { return s.h.Write(p) }

// SHA1 returns the lower-case hex digest of everything written so far.
func (s *StreamingHasher) SHA1() string { return hex.EncodeToString(s.sum()) }

// Matches reports whether the file at path has the given expected SHA-1.
// An empty expected value matches whenever the file exists (no checksum
// available to verify); a missing file never matches.
func Matches(path, expected string) (bool, error) {
	if expected == "" {
		if _, err := os.Stat(path); err != nil {
			return false, nil
		}
		return true, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	actual, err := SHA1(path)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}

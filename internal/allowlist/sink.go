// Package allowlist persists the extracted URL set as a plaintext allowlist,
// one sorted URL per line.
package allowlist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Sink writes the final URL set somewhere durable, returning its location
// and the number of URLs written.
type Sink interface {
	Write(ctx context.Context, urls map[string]struct{}) (string, int, error)
}

// FileSink writes the allowlist to a file on disk.
type FileSink struct {
	path   string
	logger *zap.Logger
}

// NewFileSink returns a sink writing to path.
func NewFileSink(path string, logger *zap.Logger) *FileSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSink{
		path:   path,
		logger: logger,
	}
}

// Write renders the URL set and writes it to the configured path.
func (s *FileSink) Write(ctx context.Context, urls map[string]struct{}) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, fmt.Errorf("context canceled: %w", err)
	}
	if len(urls) == 0 {
		return "", 0, fmt.Errorf("empty url set")
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", 0, fmt.Errorf("create allowlist dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, Render(urls), 0o600); err != nil {
		return "", 0, fmt.Errorf("write allowlist %s: %w", s.path, err)
	}
	s.logger.Debug("allowlist file written", zap.String("path", s.path), zap.Int("urls", len(urls)))
	return s.path, len(urls), nil
}

// Render sorts the set and joins it one URL per line with a final newline.
func Render(urls map[string]struct{}) []byte {
	sorted := make([]string, 0, len(urls))
	for u := range urls {
		sorted = append(sorted, u)
	}
	sort.Strings(sorted)
	return []byte(strings.Join(sorted, "\n") + "\n")
}

// MemorySink captures writes in memory for tests.
type MemorySink struct {
	mu   sync.Mutex
	last []byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write records the rendered allowlist.
func (s *MemorySink) Write(ctx context.Context, urls map[string]struct{}) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, fmt.Errorf("context canceled: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = Render(urls)
	return "memory://allowlist", len(urls), nil
}

// Bytes returns the last rendered allowlist.
func (s *MemorySink) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...)
}

const timestampLayout = "02_Jan_2006_15_04_05-UTC"

// Timestamp renders the run timestamp in UTC for the summary log.
func Timestamp(clk Clock) string {
	return clk.Now().UTC().Format(timestampLayout)
}

package extsort

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eunmann/i32sort/pkg/intcodec"
)

// writeIntsFile writes values to a new file in dir and returns its path.
func writeIntsFile(t *testing.T, dir, name string, values []int32) string {
	t.Helper()
	buf := make([]byte, len(values)*intcodec.Width)
	intcodec.Encode(buf, values)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// emptyFile creates an empty file in dir and returns its path.
func emptyFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return path
}

// readIntsFile decodes every value in path.
func readIntsFile(t *testing.T, path string) []int32 {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(data)%intcodec.Width != 0 {
		t.Fatalf("%s has %d bytes, not a multiple of 4", path, len(data))
	}
	values := make([]int32, len(data)/intcodec.Width)
	intcodec.Decode(values, data)
	return values
}

// dirEntries returns the names inside dir.
func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// testConfig returns a config whose temp files land in a fresh directory.
func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.TempDir = t.TempDir()
	cfg.BufferSize = 64
	cfg.BucketBufferSize = 16
	return cfg
}

package benchutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SkipIfNoLongBench skips the benchmark if I32SORT_LONG_BENCH is not set.
// Use this to gate long-running benchmarks that shouldn't run by default.
func SkipIfNoLongBench(b *testing.B) {
	if os.Getenv("I32SORT_LONG_BENCH") == "" {
		b.Skip("set I32SORT_LONG_BENCH=1 to run scaling benchmark")
	}
}

// InputFile writes n ints of the given pattern into a temp dir and returns
// its path along with an empty output path next to it.
func InputFile(tb testing.TB, pattern Pattern, n int) (input, output string) {
	tb.Helper()
	dir := tb.TempDir()
	input = filepath.Join(dir, "input.bin")
	output = filepath.Join(dir, "output.bin")

	if err := WriteInts(input, pattern, n, BenchmarkSeed); err != nil {
		tb.Fatalf("WriteInts: %v", err)
	}
	if err := os.WriteFile(output, nil, 0o644); err != nil {
		tb.Fatalf("create output: %v", err)
	}
	return input, output
}

package benchutil

// Shared constants for benchmarks across packages.

// BenchmarkSeed is the default seed for reproducible benchmark data generation.
const BenchmarkSeed = 42

// BenchmarkSizes are the int counts for quick runs.
var BenchmarkSizes = []int{1_000, 100_000, 1_000_000}

// ScalingSizes are larger counts for scaling tests.
// Used with I32SORT_LONG_BENCH=1 environment variable.
var ScalingSizes = []int{5_000_000, 20_000_000, 50_000_000}

// Patterns are the input orders exercised by benchmarks.
var Patterns = []Pattern{
	PatternRandom,
	PatternAscending,
	PatternDescending,
	PatternConstant,
}

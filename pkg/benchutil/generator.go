// Package benchutil provides synthetic int32 data for benchmarks and testing.
package benchutil

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/eunmann/i32sort/pkg/intcodec"
)

// Pattern is the order of generated values.
type Pattern string

const (
	// PatternRandom draws uniformly over the full int32 range.
	PatternRandom Pattern = "random"
	// PatternAscending writes 0, 1, 2, ...
	PatternAscending Pattern = "ascending"
	// PatternDescending writes 0, -1, -2, ...
	PatternDescending Pattern = "descending"
	// PatternConstant writes the same value n times.
	PatternConstant Pattern = "constant"
)

// ParsePattern converts a flag value into a Pattern.
func ParsePattern(s string) (Pattern, error) {
	switch p := Pattern(s); p {
	case "":
		return PatternRandom, nil
	case PatternRandom, PatternAscending, PatternDescending, PatternConstant:
		return p, nil
	default:
		return "", fmt.Errorf("unknown pattern %q", s)
	}
}

// Generator produces a deterministic stream of int32 values.
type Generator struct {
	pattern Pattern
	rng     *rand.Rand
	seed    int64
	i       int64
}

// NewGenerator creates a generator. seed 0 uses BenchmarkSeed.
func NewGenerator(pattern Pattern, seed int64) *Generator {
	if seed == 0 {
		seed = BenchmarkSeed
	}
	return &Generator{
		pattern: pattern,
		rng:     rand.New(rand.NewSource(seed)),
		seed:    seed,
	}
}

// Next returns the next value.
func (g *Generator) Next() int32 {
	i := g.i
	g.i++
	switch g.pattern {
	case PatternAscending:
		return int32(i)
	case PatternDescending:
		return int32(-i)
	case PatternConstant:
		return int32(g.seed % math.MaxInt32)
	default:
		return int32(g.rng.Uint32())
	}
}

// Fill writes len(dst) values into dst.
func (g *Generator) Fill(dst []int32) {
	for i := range dst {
		dst[i] = g.Next()
	}
}

// Ints returns n generated values.
func Ints(pattern Pattern, n int, seed int64) []int32 {
	values := make([]int32, n)
	NewGenerator(pattern, seed).Fill(values)
	return values
}

// WriteInts creates path and writes n generated values to it.
func WriteInts(path string, pattern Pattern, n int, seed int64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	g := NewGenerator(pattern, seed)
	w := intcodec.NewWriter(f, intcodec.DefaultBufferSize)
	chunk := make([]int32, 64*1024)
	for remaining := n; remaining > 0; {
		batch := chunk[:min(remaining, len(chunk))]
		g.Fill(batch)
		if err := w.WriteInts(batch); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		remaining -= len(batch)
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

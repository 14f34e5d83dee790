package extsort

import (
	"math"
	"slices"
	"testing"

	"github.com/eunmann/i32sort/pkg/benchutil"
)

func TestBucketIndex(t *testing.T) {
	tests := []struct {
		v    int32
		pass int
		want int
	}{
		{0x01020304, 0, 0x04},
		{0x01020304, 1, 0x03},
		{0x01020304, 2, 0x02},
		{0x01020304, 3, 0x81},
		{0, 3, 0x80},
		{-1, 0, 0xFF},
		{-1, 3, 0x7F},
		{math.MinInt32, 3, 0x00},
		{math.MaxInt32, 3, 0xFF},
	}

	for _, tt := range tests {
		if got := bucketIndex(tt.v, tt.pass); got != tt.want {
			t.Errorf("bucketIndex(%#x, %d) = %#x, want %#x", tt.v, tt.pass, got, tt.want)
		}
	}
}

func TestBucketIndex_LastPassOrdersSigned(t *testing.T) {
	ordered := []int32{math.MinInt32, -1 << 24, -1, 0, 1 << 24, math.MaxInt32}
	prev := -1
	for _, v := range ordered {
		b := bucketIndex(v, radixPasses-1)
		if b < prev {
			t.Errorf("bucket of %d (%d) precedes previous bucket %d", v, b, prev)
		}
		prev = b
	}
}

func TestRadixSort(t *testing.T) {
	tests := []struct {
		name   string
		values []int32
	}{
		{"empty", nil},
		{"single", []int32{-3}},
		{"mixed signs", []int32{-1, 5, -100, 0, 3}},
		{"extremes", []int32{math.MaxInt32, math.MinInt32, 0, -1, 1}},
		{"random", benchutil.Ints(benchutil.PatternRandom, 3_000, 8)},
		{"descending", benchutil.Ints(benchutil.PatternDescending, 1_000, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tempDir := t.TempDir()
			in := writeIntsFile(t, dir, "in.bin", tt.values)
			out := emptyFile(t, dir, "out.bin")

			n, err := RadixSort(in, out, tempDir, RadixOptions{BufferSize: 64, BucketBufferSize: 16})
			if err != nil {
				t.Fatalf("RadixSort: %v", err)
			}
			if n != int64(len(tt.values)) {
				t.Errorf("sorted %d ints, want %d", n, len(tt.values))
			}

			want := slices.Clone(tt.values)
			slices.Sort(want)
			if got := readIntsFile(t, out); !slices.Equal(got, want) {
				t.Errorf("output not the sorted input")
			}
			if got := readIntsFile(t, in); !slices.Equal(got, tt.values) {
				t.Error("input modified")
			}
			if names := dirEntries(t, tempDir); len(names) != 0 {
				t.Errorf("scratch files left behind: %v", names)
			}
		})
	}
}

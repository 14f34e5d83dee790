package intcodec

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriterLittleEndianLayout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 0)
	if err := w.WriteInt(1); err != nil {
		t.Fatalf("WriteInt: %v", err)
	}
	if err := w.WriteInt(-2); err != nil {
		t.Fatalf("WriteInt: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := []byte{0x01, 0x00, 0x00, 0x00, 0xFE, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("encoded bytes = % x, want % x", buf.Bytes(), want)
	}
	if w.Count() != 2 {
		t.Errorf("Count() = %d, want 2", w.Count())
	}
}

func TestReaderNext(t *testing.T) {
	values := []int32{29, 8, -26, 0, 2147483647, -2147483648}
	data := make([]byte, len(values)*Width)
	Encode(data, values)

	r := NewReader(bytes.NewReader(data), 16)
	var got []int32
	for {
		v, ok, err := r.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, v)
	}

	if len(got) != len(values) {
		t.Fatalf("got %d values, want %d", len(got), len(values))
	}
	for i := range values {
		if got[i] != values[i] {
			t.Errorf("value[%d] = %d, want %d", i, got[i], values[i])
		}
	}
	if r.Count() != int64(len(values)) {
		t.Errorf("Count() = %d, want %d", r.Count(), len(values))
	}
}

func TestReaderNextTruncated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 0, 0, 0, 7}), 0)

	if _, ok, err := r.Next(); !ok || err != nil {
		t.Fatalf("first Next: ok=%v err=%v", ok, err)
	}
	_, ok, err := r.Next()
	if ok {
		t.Fatal("expected ok=false on truncated value")
	}
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}

func TestReadInts(t *testing.T) {
	values := make([]int32, 100_000)
	for i := range values {
		values[i] = int32(i*7919) - 50_000
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, 4096)
	if err := w.WriteInts(values); err != nil {
		t.Fatalf("WriteInts: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := NewReader(&buf, 4096)
	chunk := make([]int32, 30_000)
	var got []int32
	for {
		n, err := r.ReadInts(chunk)
		if err != nil {
			t.Fatalf("ReadInts: %v", err)
		}
		got = append(got, chunk[:n]...)
		if n < len(chunk) {
			break
		}
	}

	if len(got) != len(values) {
		t.Fatalf("got %d values, want %d", len(got), len(values))
	}
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("value[%d] = %d, want %d", i, got[i], values[i])
		}
	}
}

func TestReadIntsShortFinalChunk(t *testing.T) {
	data := make([]byte, 3*Width)
	Encode(data, []int32{3, 2, 1})

	r := NewReader(bytes.NewReader(data), 0)
	chunk := make([]int32, 2)

	n, err := r.ReadInts(chunk)
	if err != nil || n != 2 {
		t.Fatalf("first ReadInts: n=%d err=%v", n, err)
	}
	n, err = r.ReadInts(chunk)
	if err != nil || n != 1 {
		t.Fatalf("second ReadInts: n=%d err=%v", n, err)
	}
	n, err = r.ReadInts(chunk)
	if err != nil || n != 0 {
		t.Fatalf("third ReadInts: n=%d err=%v", n, err)
	}
}

func TestReadIntsTruncated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 0, 0, 0, 2, 0}), 0)
	chunk := make([]int32, 4)

	n, err := r.ReadInts(chunk)
	if n != 1 {
		t.Errorf("n = %d, want 1", n)
	}
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}

func TestCountFromSize(t *testing.T) {
	tests := []struct {
		size    int64
		want    int64
		wantErr bool
	}{
		{0, 0, false},
		{4, 1, false},
		{12, 3, false},
		{5, 0, true},
		{-4, 0, true},
	}

	for _, tt := range tests {
		got, err := CountFromSize(tt.size)
		if tt.wantErr {
			if !errors.Is(err, ErrMisaligned) {
				t.Errorf("CountFromSize(%d) err = %v, want ErrMisaligned", tt.size, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("CountFromSize(%d) error: %v", tt.size, err)
		}
		if got != tt.want {
			t.Errorf("CountFromSize(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestFileCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ints.bin")
	if err := os.WriteFile(path, make([]byte, 40), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := FileCount(path)
	if err != nil {
		t.Fatalf("FileCount: %v", err)
	}
	if n != 10 {
		t.Errorf("FileCount = %d, want 10", n)
	}

	if _, err := FileCount(filepath.Join(dir, "missing.bin")); err == nil {
		t.Error("expected error for missing file")
	}
}

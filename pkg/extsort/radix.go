package extsort

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/eunmann/i32sort/pkg/intcodec"
	"github.com/eunmann/i32sort/pkg/logging"
)

const (
	radixBuckets = 256
	radixPasses  = 4
)

// RadixOptions configures the radix engine.
type RadixOptions struct {
	// BufferSize is the buffer for the pass input and output.
	BufferSize int
	// BucketBufferSize is the write buffer of each bucket file.
	BucketBufferSize int
}

// bucketIndex returns the bucket of v for the given pass. Pass 0 looks at
// the least significant byte. On the last pass the top bit is flipped so
// negative values, whose sign bit is set, land after the non-negative ones.
func bucketIndex(v int32, pass int) int {
	d := int(uint32(v)>>(uint(pass)*8)) & 0xFF
	if pass == radixPasses-1 {
		d ^= 0x80
	}
	return d
}

// RadixSort sorts inputPath into outputPath with four LSD passes over
// 256 bucket files each. No pass holds more than one chunk of values in
// memory.
//
// Passes ping-pong between two scratch files in tempDir; the last pass
// writes straight into outputPath, so the output is truncated only once
// and the input is never written.
func RadixSort(inputPath, outputPath, tempDir string, opts RadixOptions) (int64, error) {
	log := logging.WithPhase("radix")
	progress := logging.NewProgressTracker("radix", radixPasses, log)

	scratch := [2]string{
		filepath.Join(tempDir, "radix-a.bin"),
		filepath.Join(tempDir, "radix-b.bin"),
	}

	src := inputPath
	var count int64
	for pass := 0; pass < radixPasses; pass++ {
		start := time.Now()

		dst := scratch[pass%2]
		if pass == radixPasses-1 {
			dst = outputPath
		}

		n, err := radixPass(src, dst, tempDir, pass, opts)
		if err != nil {
			return 0, fmt.Errorf("radix pass %d: %w", pass, err)
		}
		count = n

		if src != inputPath {
			if err := os.Remove(src); err != nil {
				log.Warn().Err(err).Str("path", src).Msg("failed to remove scratch file")
			}
		}
		src = dst

		progress.RecordCompletion(time.Since(start))
		progress.LogStep("radix pass complete", func(e *zerolog.Event) {
			e.Int("pass", pass).Int64("ints", n)
		})
	}

	return count, nil
}

// radixPass distributes src into buckets by the pass's byte and then
// concatenates the non-empty buckets into dst in bucket order.
func radixPass(src, dst, tempDir string, pass int, opts RadixOptions) (int64, error) {
	buckets := newBucketSet(tempDir, pass, opts.BucketBufferSize)
	defer buckets.discard()

	if err := buckets.fill(src, pass, opts.BufferSize); err != nil {
		return 0, err
	}
	if err := buckets.closeWriters(); err != nil {
		return 0, err
	}
	return buckets.concat(dst)
}

// bucketSet owns the 256 bucket files of one pass. Files are opened on
// first use.
type bucketSet struct {
	dir        string
	pass       int
	bufferSize int
	files      [radixBuckets]*os.File
	writers    [radixBuckets]*intcodec.Writer
	counts     [radixBuckets]int64
}

func newBucketSet(dir string, pass, bufferSize int) *bucketSet {
	return &bucketSet{dir: dir, pass: pass, bufferSize: bufferSize}
}

func (b *bucketSet) path(d int) string {
	return filepath.Join(b.dir, fmt.Sprintf("bucket-%d-%02x.bin", b.pass, d))
}

func (b *bucketSet) fill(src string, pass, bufferSize int) error {
	in, err := os.Open(src)
	if err != nil {
		return ioError("open pass input", err)
	}
	defer in.Close()

	reader := intcodec.NewReader(in, bufferSize)
	chunk := make([]int32, 16*1024)
	for {
		n, err := reader.ReadInts(chunk)
		if err != nil {
			return ioError("read pass input", err)
		}
		for _, v := range chunk[:n] {
			if err := b.write(bucketIndex(v, pass), v); err != nil {
				return err
			}
		}
		if n < len(chunk) {
			return nil
		}
	}
}

func (b *bucketSet) write(d int, v int32) error {
	w := b.writers[d]
	if w == nil {
		f, err := os.Create(b.path(d))
		if err != nil {
			return ioError("create bucket file", err)
		}
		b.files[d] = f
		w = intcodec.NewWriter(f, b.bufferSize)
		b.writers[d] = w
	}
	if err := w.WriteInt(v); err != nil {
		return ioError("write bucket", err)
	}
	b.counts[d]++
	return nil
}

// closeWriters flushes and closes every open bucket file.
func (b *bucketSet) closeWriters() error {
	var firstErr error
	for d, f := range b.files {
		if f == nil {
			continue
		}
		if err := b.writers[d].Flush(); err != nil && firstErr == nil {
			firstErr = ioError("flush bucket", err)
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = ioError("close bucket", err)
		}
		b.files[d] = nil
		b.writers[d] = nil
	}
	return firstErr
}

// concat appends the non-empty buckets to dst in ascending bucket order,
// deleting each bucket once it is drained.
func (b *bucketSet) concat(dst string) (int64, error) {
	out, err := os.Create(dst)
	if err != nil {
		return 0, ioError("create pass output", err)
	}

	var total int64
	for d := 0; d < radixBuckets; d++ {
		if b.counts[d] == 0 {
			continue
		}
		if err := appendFile(out, b.path(d)); err != nil {
			out.Close()
			return 0, err
		}
		if err := os.Remove(b.path(d)); err != nil {
			logging.L().Warn().Err(err).Str("path", b.path(d)).Msg("failed to remove bucket file")
		}
		total += b.counts[d]
		b.counts[d] = 0
	}

	if err := out.Close(); err != nil {
		return 0, ioError("close pass output", err)
	}
	return total, nil
}

// discard closes and removes whatever bucket files are left after a
// failed pass.
func (b *bucketSet) discard() {
	for d, f := range b.files {
		if f != nil {
			f.Close()
		}
		if b.files[d] != nil || b.counts[d] > 0 {
			os.Remove(b.path(d))
		}
	}
}

func appendFile(out *os.File, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return ioError("open bucket", err)
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		return ioError("copy bucket", err)
	}
	return nil
}

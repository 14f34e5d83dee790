package extsort

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/eunmann/i32sort/pkg/intcodec"
)

// Codec selects how run files are compressed.
type Codec string

const (
	// CodecNone writes runs as plain int32 files.
	CodecNone Codec = "none"
	// CodecZstd writes runs as a single zstd stream.
	CodecZstd Codec = "zstd"
	// CodecSnappy writes runs in the snappy framing format.
	CodecSnappy Codec = "snappy"
)

// ParseCodec converts a flag value into a Codec.
func ParseCodec(s string) (Codec, error) {
	switch c := Codec(s); c {
	case "":
		return CodecNone, nil
	case CodecNone, CodecZstd, CodecSnappy:
		return c, nil
	default:
		return "", fmt.Errorf("unknown codec %q (want none, zstd or snappy)", s)
	}
}

func (c Codec) extension() string {
	switch c {
	case CodecZstd:
		return ".zst"
	case CodecSnappy:
		return ".sz"
	default:
		return ""
	}
}

// CompressionLevel sets the zstd effort for compressed runs. Snappy has no
// levels and ignores it.
type CompressionLevel int

const (
	// CompressionFastest prioritizes speed over ratio.
	CompressionFastest CompressionLevel = 1
	// CompressionDefault balances speed and ratio.
	CompressionDefault CompressionLevel = 3
	// CompressionBetter prioritizes ratio over speed.
	CompressionBetter CompressionLevel = 6
)

// ParseCompressionLevel converts a flag value into a CompressionLevel.
func ParseCompressionLevel(s string) (CompressionLevel, error) {
	switch s {
	case "", "fastest":
		return CompressionFastest, nil
	case "default":
		return CompressionDefault, nil
	case "better":
		return CompressionBetter, nil
	default:
		return 0, fmt.Errorf("unknown compression level %q (want fastest, default or better)", s)
	}
}

// zstdLevel maps the level onto the encoder's speed setting. Zero and
// unknown levels map to the fastest encoder.
func (l CompressionLevel) zstdLevel() zstd.EncoderLevel {
	switch l {
	case CompressionDefault:
		return zstd.SpeedDefault
	case CompressionBetter:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedFastest
	}
}

// Run is a temporary file holding one sorted chunk of the input.
//
// An uncompressed run is a plain little-endian int32 file. A compressed
// run holds the same bytes inside one stream of its codec.
type Run struct {
	// Index is the run's sequence number, in input order.
	Index int
	// Path is the run file's location inside the sort's temp directory.
	Path string
	// Count is the number of ints in the run.
	Count int64
	// Codec is the run's compression.
	Codec Codec
}

// runPath returns the deterministic file name for run index.
func runPath(dir string, index int, codec Codec) string {
	return filepath.Join(dir, fmt.Sprintf("run-%d.bin%s", index, codec.extension()))
}

// RunWriter writes one sorted run.
type RunWriter struct {
	file   *os.File
	enc    io.WriteCloser
	writer *intcodec.Writer
	run    Run
	closed bool
}

// NewRunWriter creates the file for run index in dir, compressed with
// opts.Codec at opts.Level.
func NewRunWriter(dir string, index int, opts RunOptions) (*RunWriter, error) {
	codec := opts.Codec
	if codec == "" {
		codec = CodecNone
	}
	path := runPath(dir, index, codec)
	f, err := os.Create(path)
	if err != nil {
		return nil, ioError("create run file", err)
	}

	w := &RunWriter{
		file: f,
		run:  Run{Index: index, Path: path, Codec: codec},
	}

	switch codec {
	case CodecZstd:
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(opts.Level.zstdLevel()))
		if err != nil {
			f.Close()
			os.Remove(path)
			return nil, ioError("create zstd encoder", err)
		}
		w.enc = enc
	case CodecSnappy:
		w.enc = snappy.NewBufferedWriter(f)
	}

	if w.enc != nil {
		w.writer = intcodec.NewWriter(w.enc, opts.BufferSize)
	} else {
		w.writer = intcodec.NewWriter(f, opts.BufferSize)
	}
	return w, nil
}

// WriteInts appends sorted values to the run.
func (w *RunWriter) WriteInts(values []int32) error {
	if err := w.writer.WriteInts(values); err != nil {
		return ioError("write run", err)
	}
	return nil
}

// Close flushes all buffers, finalizes compression and closes the file.
func (w *RunWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.writer.Flush(); err != nil {
		if w.enc != nil {
			w.enc.Close()
		}
		w.file.Close()
		return ioError("flush run", err)
	}

	if w.enc != nil {
		if err := w.enc.Close(); err != nil {
			w.file.Close()
			return ioError("close run encoder", err)
		}
	}

	if err := w.file.Close(); err != nil {
		return ioError("close run file", err)
	}
	return nil
}

// Run returns the descriptor of the run written so far.
func (w *RunWriter) Run() Run {
	r := w.run
	r.Count = w.writer.Count()
	return r
}

// RunReader streams the values of one run.
type RunReader struct {
	file   *os.File
	zdec   *zstd.Decoder
	reader *intcodec.Reader
	run    Run
	closed bool
}

// OpenRun opens a run for reading.
func OpenRun(run Run, bufferSize int) (*RunReader, error) {
	f, err := os.Open(run.Path)
	if err != nil {
		return nil, ioError("open run file", err)
	}

	r := &RunReader{file: f, run: run}
	switch run.Codec {
	case CodecZstd:
		dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			f.Close()
			return nil, ioError("create zstd decoder", err)
		}
		r.zdec = dec
		r.reader = intcodec.NewReader(dec, bufferSize)
	case CodecSnappy:
		r.reader = intcodec.NewReader(snappy.NewReader(f), bufferSize)
	default:
		r.reader = intcodec.NewReader(f, bufferSize)
	}
	return r, nil
}

// Next returns the next value of the run; ok is false once it is exhausted.
func (r *RunReader) Next() (int32, bool, error) {
	v, ok, err := r.reader.Next()
	if err != nil {
		return 0, false, ioError(fmt.Sprintf("read run %d", r.run.Index), err)
	}
	return v, ok, nil
}

// Run returns the descriptor of the run being read.
func (r *RunReader) Run() Run {
	return r.run
}

// Close closes the run file.
func (r *RunReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	if r.zdec != nil {
		r.zdec.Close()
	}
	if err := r.file.Close(); err != nil {
		return ioError("close run file", err)
	}
	return nil
}

// Remove closes and deletes the run file.
func (r *RunReader) Remove() error {
	if err := r.Close(); err != nil {
		return err
	}
	return os.Remove(r.run.Path)
}

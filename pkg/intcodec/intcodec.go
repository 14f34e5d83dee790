// Package intcodec reads and writes flat little-endian int32 streams.
//
// File format: a sequence of 4-byte two's-complement signed integers in
// little-endian order. There is no header, delimiter, checksum or
// terminator; a valid file length is always a multiple of 4.
package intcodec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Width is the encoded size of one value in bytes.
const Width = 4

// DefaultBufferSize is the buffer size used when a caller passes <= 0.
const DefaultBufferSize = 1 << 20 // 1 MiB

var (
	// ErrTruncated indicates the stream ended in the middle of a value.
	ErrTruncated = errors.New("truncated int32 stream")
	// ErrMisaligned indicates a byte length that is not a multiple of Width.
	ErrMisaligned = errors.New("byte length is not a multiple of 4")
)

// CountFromSize converts a byte length into a value count.
func CountFromSize(size int64) (int64, error) {
	if size < 0 || size%Width != 0 {
		return 0, fmt.Errorf("%w: %d bytes", ErrMisaligned, size)
	}
	return size / Width, nil
}

// FileCount returns the number of values stored in the file at path.
func FileCount(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return CountFromSize(info.Size())
}

// Encode writes values into dst, which must hold len(values)*Width bytes.
func Encode(dst []byte, values []int32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(dst[i*Width:], uint32(v))
	}
}

// Decode fills values from src, which must hold len(values)*Width bytes.
func Decode(values []int32, src []byte) {
	for i := range values {
		values[i] = int32(binary.LittleEndian.Uint32(src[i*Width:]))
	}
}

// Reader decodes int32 values from an underlying byte stream.
type Reader struct {
	r       *bufio.Reader
	scratch []byte
	read    int64
}

// NewReader wraps r with a buffered decoder.
func NewReader(r io.Reader, bufferSize int) *Reader {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Reader{
		r:       bufio.NewReaderSize(r, bufferSize),
		scratch: make([]byte, 64*1024),
	}
}

// Next returns the next value. ok is false once the stream is exhausted;
// end of stream is not an error. A stream that stops inside a value
// returns ErrTruncated.
func (r *Reader) Next() (v int32, ok bool, err error) {
	var b [Width]byte
	n, err := io.ReadFull(r.r, b[:])
	switch {
	case err == nil:
		r.read++
		return int32(binary.LittleEndian.Uint32(b[:])), true, nil
	case errors.Is(err, io.EOF) && n == 0:
		return 0, false, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return 0, false, fmt.Errorf("%w: %d trailing bytes", ErrTruncated, n)
	default:
		return 0, false, err
	}
}

// ReadInts fills dst with as many values as the stream can supply and
// returns how many were stored. A result shorter than len(dst) means the
// stream is exhausted.
func (r *Reader) ReadInts(dst []int32) (int, error) {
	filled := 0
	for filled < len(dst) {
		want := (len(dst) - filled) * Width
		if want > len(r.scratch) {
			want = len(r.scratch)
		}
		n, err := io.ReadFull(r.r, r.scratch[:want])
		whole := n / Width
		Decode(dst[filled:filled+whole], r.scratch[:whole*Width])
		filled += whole
		r.read += int64(whole)

		if err != nil {
			if errors.Is(err, io.EOF) {
				return filled, nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				if n%Width != 0 {
					return filled, fmt.Errorf("%w: %d trailing bytes", ErrTruncated, n%Width)
				}
				return filled, nil
			}
			return filled, err
		}
	}
	return filled, nil
}

// Count returns how many values have been decoded so far.
func (r *Reader) Count() int64 {
	return r.read
}

// Writer encodes int32 values onto an underlying byte stream.
// Callers must call Flush before closing the destination.
type Writer struct {
	w       *bufio.Writer
	scratch []byte
	written int64
}

// NewWriter wraps w with a buffered encoder.
func NewWriter(w io.Writer, bufferSize int) *Writer {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Writer{
		w:       bufio.NewWriterSize(w, bufferSize),
		scratch: make([]byte, 64*1024),
	}
}

// WriteInt appends a single value.
func (w *Writer) WriteInt(v int32) error {
	var b [Width]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	if _, err := w.w.Write(b[:]); err != nil {
		return err
	}
	w.written++
	return nil
}

// WriteInts appends all values.
func (w *Writer) WriteInts(values []int32) error {
	per := len(w.scratch) / Width
	for len(values) > 0 {
		n := min(per, len(values))
		Encode(w.scratch, values[:n])
		if _, err := w.w.Write(w.scratch[:n*Width]); err != nil {
			return err
		}
		w.written += int64(n)
		values = values[n:]
	}
	return nil
}

// Flush writes buffered data to the underlying stream.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Count returns how many values have been written so far.
func (w *Writer) Count() int64 {
	return w.written
}

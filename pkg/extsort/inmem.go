package extsort

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/eunmann/i32sort/pkg/intcodec"
)

// SortInMemory reads exactly count ints from inputPath, sorts them and
// writes them to outputPath in one sequential pass. The input is closed
// before the output is created, so both paths may name the same file.
func SortInMemory(inputPath, outputPath string, count int64, bufferSize int) error {
	values, err := loadInts(inputPath, count, bufferSize)
	if err != nil {
		return err
	}

	slices.Sort(values)

	out, err := os.Create(outputPath)
	if err != nil {
		return ioError("create output", err)
	}
	w := intcodec.NewWriter(out, bufferSize)
	if err := w.WriteInts(values); err != nil {
		out.Close()
		return ioError("write output", err)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return ioError("flush output", err)
	}
	if err := out.Close(); err != nil {
		return ioError("close output", err)
	}
	return nil
}

func loadInts(path string, count int64, bufferSize int) ([]int32, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, ioError("open input", err)
	}
	defer in.Close()

	values := make([]int32, count)
	n, err := intcodec.NewReader(in, bufferSize).ReadInts(values)
	if err != nil {
		return nil, ioError("read input", err)
	}
	if int64(n) != count {
		return nil, ioError("read input", fmt.Errorf("got %d of %d ints: %w", n, count, io.ErrUnexpectedEOF))
	}
	return values, nil
}

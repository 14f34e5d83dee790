package extsort

import (
	"os"

	"github.com/eunmann/i32sort/pkg/intcodec"
)

// VerifyResult describes the order of an int32 file.
type VerifyResult struct {
	// Count is the number of ints in the file.
	Count int64
	// Sorted reports whether the file is in ascending order.
	Sorted bool
	// FirstViolation is the index of the first value smaller than its
	// predecessor, or -1 when Sorted.
	FirstViolation int64
}

// Verify streams path once and checks that it is ascending.
func Verify(path string, bufferSize int) (VerifyResult, error) {
	res := VerifyResult{Sorted: true, FirstViolation: -1}

	if _, err := intcodec.FileCount(path); err != nil {
		if os.IsNotExist(err) {
			return res, preconditionError("file %q does not exist", path)
		}
		return res, preconditionError("file %q: %v", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return res, ioError("open file", err)
	}
	defer f.Close()

	r := intcodec.NewReader(f, bufferSize)
	var prev int32
	for {
		v, ok, err := r.Next()
		if err != nil {
			return res, ioError("read file", err)
		}
		if !ok {
			break
		}
		if res.Sorted && res.Count > 0 && v < prev {
			res.Sorted = false
			res.FirstViolation = res.Count
		}
		prev = v
		res.Count++
	}
	return res, nil
}

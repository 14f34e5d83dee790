package extsort

import (
	"errors"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/eunmann/i32sort/pkg/intcodec"
	"github.com/eunmann/i32sort/pkg/logging"
)

// RunOptions configures run creation.
type RunOptions struct {
	// BufferSize is the read/write buffer size.
	BufferSize int
	// Codec compresses run files. Default: CodecNone.
	Codec Codec
	// Level is the zstd effort. Default: CompressionFastest.
	Level CompressionLevel
}

// BuildRuns splits the input into sorted runs of at most capacity ints,
// written to tempDir as run-0, run-1, ... in input order.
//
// A chunk shorter than capacity ends the input: it is still emitted, and
// no further read is attempted. An empty input yields no runs. On error
// the runs already written are left in tempDir for the caller to remove.
func BuildRuns(inputPath, tempDir string, capacity int, opts RunOptions) ([]Run, error) {
	if capacity <= 0 {
		return nil, errors.New("run capacity must be positive")
	}
	log := logging.WithPhase("run_build")

	in, err := os.Open(inputPath)
	if err != nil {
		return nil, ioError("open input", err)
	}
	defer in.Close()

	var expected int64
	if info, err := in.Stat(); err == nil {
		if n, err := intcodec.CountFromSize(info.Size()); err == nil {
			expected = (n + int64(capacity) - 1) / int64(capacity)
		}
	}
	progress := logging.NewProgressTracker("run_build", expected, log)

	reader := intcodec.NewReader(in, opts.BufferSize)
	buf := make([]int32, capacity)
	var runs []Run

	for {
		start := time.Now()

		n, err := reader.ReadInts(buf)
		if err != nil {
			return nil, ioError("read input chunk", err)
		}
		if n == 0 {
			break
		}

		chunk := buf[:n]
		slices.Sort(chunk)

		run, err := writeRun(tempDir, len(runs), chunk, opts)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)

		progress.RecordCompletion(time.Since(start))
		progress.LogStep("run written", func(e *zerolog.Event) {
			e.Int("run", run.Index).Int64("ints", run.Count)
		})

		if n < capacity {
			break
		}
	}

	return runs, nil
}

func writeRun(dir string, index int, sorted []int32, opts RunOptions) (Run, error) {
	w, err := NewRunWriter(dir, index, opts)
	if err != nil {
		return Run{}, err
	}
	if err := w.WriteInts(sorted); err != nil {
		w.Close()
		return Run{}, err
	}
	if err := w.Close(); err != nil {
		return Run{}, err
	}
	return w.Run(), nil
}

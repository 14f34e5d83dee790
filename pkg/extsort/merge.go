package extsort

import (
	"os"
	"time"

	"github.com/eunmann/i32sort/pkg/intcodec"
	"github.com/eunmann/i32sort/pkg/logging"
	"github.com/eunmann/i32sort/pkg/minheap"
)

// Merge k-way merges sorted runs into outputPath and returns the number
// of ints written. The output is created or truncated; with no runs it
// is left empty.
//
// The heap holds at most one frontier value per unexhausted run, so its
// minimum is always the smallest unconsumed value overall. Equal keys
// from different runs come out in no particular order. Run files are
// deleted once the merge succeeds.
func Merge(runs []Run, outputPath string, bufferSize int) (int64, error) {
	start := time.Now()
	log := logging.WithPhase("merge")

	if len(runs) == 0 {
		out, err := os.Create(outputPath)
		if err != nil {
			return 0, ioError("create output", err)
		}
		if err := out.Close(); err != nil {
			return 0, ioError("close output", err)
		}
		return 0, nil
	}

	readers := make([]*RunReader, 0, len(runs))
	defer func() {
		for _, r := range readers {
			r.Close()
		}
	}()
	for _, run := range runs {
		r, err := OpenRun(run, bufferSize)
		if err != nil {
			return 0, err
		}
		readers = append(readers, r)
	}

	h := minheap.New(len(readers))
	for i, r := range readers {
		v, ok, err := r.Next()
		if err != nil {
			return 0, err
		}
		if ok {
			h.Insert(v, i)
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return 0, ioError("create output", err)
	}
	w := intcodec.NewWriter(out, bufferSize)

	if err := drainHeap(h, readers, w); err != nil {
		out.Close()
		return 0, err
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return 0, ioError("flush output", err)
	}
	if err := out.Close(); err != nil {
		return 0, ioError("close output", err)
	}

	for _, r := range readers {
		if err := r.Remove(); err != nil {
			log.Warn().Err(err).Str("path", r.Run().Path).Msg("failed to remove run file")
		}
	}

	logging.PhaseComplete(log, "merge", time.Since(start)).
		Int("runs", len(runs)).
		Count("ints", w.Count()).
		LogDebug("merge complete")

	return w.Count(), nil
}

// drainHeap repeatedly emits the heap minimum and refills from the run it
// came from until every run is exhausted.
func drainHeap(h *minheap.Heap, readers []*RunReader, w *intcodec.Writer) error {
	for {
		key, src, ok := h.PeekMin()
		if !ok {
			return nil
		}
		if err := w.WriteInt(key); err != nil {
			return ioError("write output", err)
		}

		next, more, err := readers[src].Next()
		if err != nil {
			return err
		}
		if more {
			h.ReplaceMin(next, src)
		} else {
			h.RemoveMin()
		}
	}
}

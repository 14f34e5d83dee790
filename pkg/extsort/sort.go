// Package extsort sorts flat little-endian int32 files with bounded memory.
//
// The Sorter picks a strategy from a memory budget:
//  1. If the input fits the budget, it is loaded, sorted and written back.
//  2. Otherwise the external engine runs in a fresh temporary directory:
//     either sorted runs of budget size followed by a k-way heap merge, or
//     four 256-bucket LSD radix passes over temporary files.
//
// Sorting is single-threaded and synchronous. The input file is never
// modified. On failure the output is left in an unspecified state; callers
// that need atomic replacement should sort into a staging path and rename
// it on success.
package extsort

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/eunmann/i32sort/pkg/intcodec"
	"github.com/eunmann/i32sort/pkg/logging"
	"github.com/eunmann/i32sort/pkg/membudget"
	"github.com/eunmann/i32sort/pkg/memdiag"
)

// Stats summarizes one completed sort.
type Stats struct {
	// Strategy is the strategy that actually ran (never StrategyAuto).
	Strategy Strategy
	// Engine is the external engine, empty for in-memory sorts.
	Engine Engine
	// Ints is the number of values sorted.
	Ints int64
	// InputBytes is the input length.
	InputBytes int64
	// Capacity is the memory budget in ints.
	Capacity int
	// BudgetSource tells where the capacity came from.
	BudgetSource membudget.BudgetSource
	// Runs is the number of merge runs written.
	Runs int
	// Passes is the number of radix passes run.
	Passes int
	// PeakHeapBytes is the largest heap allocation sampled at phase boundaries.
	PeakHeapBytes uint64
	// Duration is the wall time of the sort.
	Duration time.Duration
}

// Sorter sorts int32 files according to its Config.
type Sorter struct {
	cfg       Config
	estimator *membudget.Estimator
}

// NewSorter creates a Sorter. Unset Config fields take their defaults.
func NewSorter(cfg Config) *Sorter {
	cfg = cfg.withDefaults()
	return &Sorter{
		cfg:       cfg,
		estimator: membudget.NewEstimator(cfg.Probe, cfg.Policy),
	}
}

// Sort sorts inputPath into outputPath using DefaultConfig.
func Sort(inputPath, outputPath string) error {
	_, err := NewSorter(DefaultConfig()).Sort(inputPath, outputPath)
	return err
}

// Sort replaces the contents of outputPath with the ascending permutation
// of inputPath's ints. Both files must exist and the input length must be
// a multiple of 4; violations return ErrPrecondition before any temporary
// resource is created. I/O failures return ErrIO.
func (s *Sorter) Sort(inputPath, outputPath string) (*Stats, error) {
	start := time.Now()
	log := logging.WithPhase("sort")
	tracker := memdiag.NewTracker(s.cfg.MemDiag)

	size, err := checkPreconditions(inputPath, outputPath)
	if err != nil {
		return nil, err
	}
	count := size / intcodec.Width

	budget := s.budget()
	strategy := s.cfg.Strategy
	if strategy == StrategyAuto {
		strategy = StrategyExternal
		if budget.FitsInMemory(size) {
			strategy = StrategyInMemory
		}
	}

	stats := &Stats{
		Strategy:     strategy,
		Ints:         count,
		InputBytes:   size,
		Capacity:     budget.Capacity,
		BudgetSource: budget.Source,
	}

	log.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Int64("ints", count).
		Int("capacity", budget.Capacity).
		Str("budget_source", string(budget.Source)).
		Str("strategy", string(strategy)).
		Msg("starting sort")

	if strategy == StrategyInMemory {
		tracker.SetPhase("in_memory")
		if err := SortInMemory(inputPath, outputPath, count, s.cfg.BufferSize); err != nil {
			return nil, err
		}
	} else {
		stats.Engine = s.cfg.Engine
		if err := s.sortExternally(inputPath, outputPath, budget.Capacity, stats, tracker); err != nil {
			return nil, err
		}
	}

	tracker.LogNow("done")
	stats.PeakHeapBytes = tracker.PeakHeap()
	stats.Duration = time.Since(start)

	logging.PhaseComplete(log, "sort", stats.Duration).
		Str("strategy", string(stats.Strategy)).
		Str("engine", string(stats.Engine)).
		Count("ints", stats.Ints).
		Bytes("input_bytes", stats.InputBytes).
		Int("runs", stats.Runs).
		Int("passes", stats.Passes).
		Throughput(stats.InputBytes).
		Log("sort complete")

	return stats, nil
}

// budget returns the memory budget for one sort, sampled once.
func (s *Sorter) budget() membudget.Budget {
	if c := s.cfg.Capacity; c > 0 {
		return membudget.Budget{
			Capacity:    c,
			UsableBytes: uint64(c) * membudget.BytesPerInt,
			Source:      membudget.BudgetSourceOverride,
		}
	}
	return s.estimator.Estimate()
}

func (s *Sorter) sortExternally(inputPath, outputPath string, capacity int, stats *Stats, tracker *memdiag.Tracker) error {
	tempDir, err := os.MkdirTemp(s.cfg.TempDir, "i32sort-*")
	if err != nil {
		return ioError("create temp dir", err)
	}
	defer removeTempDir(tempDir)

	switch s.cfg.Engine {
	case EngineRadix:
		tracker.SetPhase("radix")
		_, err := RadixSort(inputPath, outputPath, tempDir, RadixOptions{
			BufferSize:       s.cfg.BufferSize,
			BucketBufferSize: s.cfg.BucketBufferSize,
		})
		if err != nil {
			return err
		}
		stats.Passes = radixPasses
	default:
		tracker.SetPhase("run_build")
		runs, err := BuildRuns(inputPath, tempDir, capacity, RunOptions{
			BufferSize: s.cfg.BufferSize,
			Codec:      s.cfg.RunCodec,
			Level:      s.cfg.RunCompressionLevel,
		})
		if err != nil {
			return err
		}
		stats.Runs = len(runs)

		tracker.SetPhase("merge")
		if _, err := Merge(runs, outputPath, s.cfg.BufferSize); err != nil {
			return err
		}
	}
	return nil
}

// checkPreconditions validates both paths and returns the input length.
func checkPreconditions(inputPath, outputPath string) (int64, error) {
	in, err := os.Stat(inputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, preconditionError("input file %q does not exist", inputPath)
		}
		return 0, ioError("stat input", err)
	}
	if in.IsDir() {
		return 0, preconditionError("input %q is a directory", inputPath)
	}

	out, err := os.Stat(outputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, preconditionError("output file %q does not exist", outputPath)
		}
		return 0, ioError("stat output", err)
	}
	if out.IsDir() {
		return 0, preconditionError("output %q is a directory", outputPath)
	}

	if _, err := intcodec.CountFromSize(in.Size()); err != nil {
		return 0, preconditionError("input %q: %v", inputPath, err)
	}
	return in.Size(), nil
}

// removeTempDir deletes the sort's temporary directory. Failures do not
// affect the sorted output, so they are logged and swallowed.
func removeTempDir(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		logging.L().Warn().
			Err(fmt.Errorf("remove temp dir: %w", err)).
			Str("temp_dir", dir).
			Msg("resource cleanup failed")
	}
}

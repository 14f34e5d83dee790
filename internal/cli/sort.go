package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/eunmann/i32sort/internal/logctx"
	"github.com/eunmann/i32sort/pkg/extsort"
	"github.com/eunmann/i32sort/pkg/fileutil"
	"github.com/eunmann/i32sort/pkg/logging"
	"github.com/eunmann/i32sort/pkg/membudget"
	"github.com/eunmann/i32sort/pkg/s3stage"
)

type sortFlags struct {
	commonFlags
	mem      string
	capacity int
	strategy string
	engine   string
	buffer   string
	compress string
	level    string
	atomic   bool
}

func parseSortFlags(args []string) (*sortFlags, []string, error) {
	f := &sortFlags{}
	fs := flag.NewFlagSet("sort", flag.ContinueOnError)
	f.register(fs)
	fs.StringVar(&f.mem, "mem", "", "memory available to the sort, e.g. 512MiB (default: probe the runtime)")
	fs.IntVar(&f.capacity, "capacity", 0, "ints held in memory at once; overrides --mem and the probe")
	fs.StringVar(&f.strategy, "strategy", "auto", "auto, memory or external")
	fs.StringVar(&f.engine, "engine", "merge", "external engine: merge or radix")
	fs.StringVar(&f.buffer, "buffer", "1MiB", "read/write buffer size")
	fs.StringVar(&f.compress, "compress", "none", "merge run compression: none, zstd or snappy")
	fs.StringVar(&f.level, "compress-level", "fastest", "zstd run effort: fastest, default or better")
	fs.BoolVar(&f.atomic, "atomic", false, "sort into a staging file and rename onto OUTPUT on success")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() != 2 {
		return nil, nil, errors.New("usage: i32sort sort [options] INPUT OUTPUT")
	}
	if f.capacity < 0 {
		return nil, nil, errors.New("--capacity must not be negative")
	}
	return f, fs.Args(), nil
}

// config maps the flags onto an extsort.Config.
func (f *sortFlags) config() (extsort.Config, error) {
	cfg := extsort.DefaultConfig()
	cfg.TempDir = f.tmpDir
	cfg.Capacity = f.capacity

	var err error
	if cfg.RunCodec, err = extsort.ParseCodec(f.compress); err != nil {
		return cfg, fmt.Errorf("--compress: %w", err)
	}
	if cfg.RunCompressionLevel, err = extsort.ParseCompressionLevel(f.level); err != nil {
		return cfg, fmt.Errorf("--compress-level: %w", err)
	}
	if cfg.Strategy, err = extsort.ParseStrategy(f.strategy); err != nil {
		return cfg, fmt.Errorf("--strategy: %w", err)
	}
	if cfg.Engine, err = extsort.ParseEngine(f.engine); err != nil {
		return cfg, fmt.Errorf("--engine: %w", err)
	}
	if cfg.Probe, err = determineProbe(f.mem); err != nil {
		return cfg, fmt.Errorf("--mem: %w", err)
	}

	buffer, err := membudget.ParseHumanSize(f.buffer)
	if err != nil {
		return cfg, fmt.Errorf("--buffer: %w", err)
	}
	if buffer < 4 || buffer > 1<<30 {
		return cfg, fmt.Errorf("--buffer: %d bytes out of range [4B, 1GiB]", buffer)
	}
	cfg.BufferSize = int(buffer)
	return cfg, nil
}

// determineProbe returns a fixed probe for an explicit --mem value and
// the runtime probe otherwise.
func determineProbe(mem string) (membudget.Probe, error) {
	if mem == "" {
		return membudget.RuntimeProbe{}, nil
	}
	bytes, err := membudget.ParseHumanSize(mem)
	if err != nil {
		return nil, err
	}
	return membudget.StaticProbe{Bytes: bytes}, nil
}

func runSort(ctx context.Context, args []string) error {
	f, paths, err := parseSortFlags(args)
	if err != nil {
		return err
	}
	cfg, err := f.config()
	if err != nil {
		return err
	}

	logging.Init(f.debug, f.human)
	ctx = logctx.WithCommand(ctx, "sort")
	log := logctx.FromContext(ctx)

	stager, err := newStager(ctx, f.tmpDir, paths...)
	if err != nil {
		return err
	}
	defer cleanupStager(ctx, stager)

	input, err := stager.Input(ctx, paths[0])
	if err != nil {
		return err
	}
	outputExisted := s3stage.IsURI(paths[1]) || fileutil.Exists(paths[1])
	output, commit, err := stager.Output(ctx, paths[1])
	if err != nil {
		return err
	}

	sorter := extsort.NewSorter(cfg)
	var stats *extsort.Stats
	sortInto := func(target string) error {
		stats, err = sorter.Sort(input, target)
		return err
	}

	if f.atomic {
		dir := filepath.Dir(output)
		if _, err := fileutil.CleanupTmpFiles(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("failed to clean stale staging files")
		}
		err = fileutil.WriteTmpThenMove(dir, output, sortInto)
	} else {
		err = sortInto(output)
	}
	if err != nil {
		if !outputExisted {
			removeCreatedOutput(ctx, output)
		}
		return fmt.Errorf("sort %s: %w", paths[0], err)
	}

	if err := commit(ctx); err != nil {
		return err
	}

	log.Info().
		Str("input", paths[0]).
		Str("output", paths[1]).
		Str("strategy", string(stats.Strategy)).
		Int64("ints", stats.Ints).
		Int("runs", stats.Runs).
		Dur("elapsed", stats.Duration).
		Msg("done")
	return nil
}

// newStager builds a stager for the given locations, connecting to S3
// only when one of them is an s3:// URI.
func newStager(ctx context.Context, tmpDir string, locations ...string) (*s3stage.Stager, error) {
	var transfer s3stage.Transfer
	for _, loc := range locations {
		if s3stage.IsURI(loc) {
			client, err := s3stage.NewClient(ctx, s3stage.DefaultTransferConfig())
			if err != nil {
				return nil, err
			}
			transfer = client
			break
		}
	}
	return s3stage.NewStager(transfer, tmpDir), nil
}

// removeCreatedOutput deletes an output file this command created before a
// failed sort, so a failure leaves no empty OUTPUT behind.
func removeCreatedOutput(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log := logctx.FromContext(ctx)
		log.Warn().Err(err).Str("output", path).Msg("failed to remove created output")
	}
}

func cleanupStager(ctx context.Context, stager *s3stage.Stager) {
	if err := stager.Cleanup(); err != nil {
		log := logctx.FromContext(ctx)
		log.Warn().Err(err).Str("dir", stager.Dir()).Msg("failed to remove staging dir")
	}
}

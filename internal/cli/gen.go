package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/eunmann/i32sort/internal/logctx"
	"github.com/eunmann/i32sort/pkg/benchutil"
	"github.com/eunmann/i32sort/pkg/logging"
)

func runGen(ctx context.Context, args []string) error {
	var common commonFlags
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	common.register(fs)
	pattern := fs.String("pattern", "random", "random, ascending, descending or constant")
	count := fs.Int("count", 1_000_000, "number of ints to write")
	seed := fs.Int64("seed", benchutil.BenchmarkSeed, "random seed")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: i32sort gen [options] OUTPUT")
	}
	if *count < 0 {
		return errors.New("--count must not be negative")
	}
	p, err := benchutil.ParsePattern(*pattern)
	if err != nil {
		return fmt.Errorf("--pattern: %w", err)
	}

	logging.Init(common.debug, common.human)
	ctx = logctx.WithCommand(ctx, "gen")

	location := fs.Arg(0)
	stager, err := newStager(ctx, common.tmpDir, location)
	if err != nil {
		return err
	}
	defer cleanupStager(ctx, stager)

	output, commit, err := stager.Output(ctx, location)
	if err != nil {
		return err
	}
	if err := benchutil.WriteInts(output, p, *count, *seed); err != nil {
		return err
	}
	if err := commit(ctx); err != nil {
		return err
	}

	log := logctx.FromContext(ctx)
	log.Info().
		Str("output", location).
		Str("pattern", string(p)).
		Int("ints", *count).
		Msg("generated")
	return nil
}

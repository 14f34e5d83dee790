package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/eunmann/i32sort/internal/logctx"
	"github.com/eunmann/i32sort/pkg/extsort"
	"github.com/eunmann/i32sort/pkg/humanfmt"
	"github.com/eunmann/i32sort/pkg/intcodec"
	"github.com/eunmann/i32sort/pkg/logging"
)

// ErrNotSorted is returned by the verify command for unordered files.
var ErrNotSorted = errors.New("file is not sorted")

func runVerify(ctx context.Context, args []string, stdout io.Writer) error {
	var common commonFlags
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	common.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: i32sort verify [options] FILE")
	}

	logging.Init(common.debug, common.human)
	ctx = logctx.WithCommand(ctx, "verify")

	location := fs.Arg(0)
	stager, err := newStager(ctx, common.tmpDir, location)
	if err != nil {
		return err
	}
	defer cleanupStager(ctx, stager)

	path, err := stager.Input(ctx, location)
	if err != nil {
		return err
	}

	res, err := extsort.Verify(path, intcodec.DefaultBufferSize)
	if err != nil {
		return err
	}
	if !res.Sorted {
		return fmt.Errorf("%w: %s: value at index %d is smaller than its predecessor", ErrNotSorted, location, res.FirstViolation)
	}

	fmt.Fprintf(stdout, "%s: sorted, %s ints\n", location, humanfmt.Count(res.Count))
	return nil
}

// Package cli implements the command-line interface for i32sort.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: i32sort <command> [options]
commands:
  sort    sort an int32 file (local path or s3://bucket/key)
  gen     write a generated int32 file
  verify  check that an int32 file is ascending`

// Run executes the CLI with the given arguments.
func Run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, os.Stdout)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	switch args[0] {
	case "sort":
		return runSort(ctx, args[1:])
	case "gen":
		return runGen(ctx, args[1:])
	case "verify":
		return runVerify(ctx, args[1:], stdout)
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// commonFlags are shared by every command.
type commonFlags struct {
	tmpDir string
	debug  bool
	human  bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.tmpDir, "tmp", "", "parent directory for temporary and staged files (default: system temp)")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&c.human, "human", false, "human-readable console logs")
}

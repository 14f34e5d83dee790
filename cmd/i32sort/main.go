// Command i32sort sorts files of little-endian int32 values with bounded memory.
package main

import (
	"fmt"
	"os"

	"github.com/eunmann/i32sort/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// Command zokernel is the kernel's CLI: read an s-expr term, type-check
// it, evaluate it, or drop into a REPL that does both interactively.
package main

import (
	"fmt"
	"os"

	"zokernel/cmd/zokernel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package main is the entry point for draftsnap.
//
// Usage:
//
//	draftsnap draw --config draftsnap.toml
//	draftsnap replay scenarios/
//	draftsnap version
package main

import (
	"fmt"
	"os"

	"github.com/dshills/draftsnap/internal/cli/commands"
)

func main() {
	if err := commands.App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// Package main provides the CLI for the synthetic polynomial dataset generator.
package main

import (
	"fmt"
	"os"

	"polysynth/internal/errors"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode returns 2 for configuration problems and 1 for everything else
func exitCode(err error) int {
	if errors.GetCode(err) == errors.CodeConfigInvalid {
		return 2
	}
	return 1
}

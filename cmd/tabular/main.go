// Package main provides the Tabular ML CLI.
package main

import (
	"os"

	"github.com/tabular-ml/tabular/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Cobra prints errors, but we exit with non-zero status
		os.Exit(1)
	}
}

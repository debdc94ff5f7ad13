// Package main provides the entry point for the datashed CLI.
package main

import (
	"fmt"
	"os"

	"github.com/datashed/datashed/cmd/datashed/cmd"
	"github.com/datashed/datashed/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, errors.FormatForCLI(err))
		os.Exit(1)
	}
}

// Package main provides the entry point for the holofs CLI.
package main

import (
	"os"

	"github.com/amn-labs/holofs/cmd/holofs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

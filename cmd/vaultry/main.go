// Package main is the entry point for the vaultry CLI tool.
package main

import (
	"os"

	"vaultry/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main - entry point for the costwatch CLI
package main

import (
	"os"

	"costwatch/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

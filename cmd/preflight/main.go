// Package main provides the entry point for the preflight CLI.
package main

import (
	"os"

	"github.com/tsawler/preflight/cmd/preflight/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

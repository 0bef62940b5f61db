// Package main is the entry point for the htmlsnap CLI.
package main

import (
	"os"

	"github.com/jmylchreest/htmlsnap/cmd/htmlsnap/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the entry point of the lomap CLI.
package main

import (
	"os"

	"github.com/uhco-curriculum/lomap/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

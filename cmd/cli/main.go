// Package main provides the entry point for vt-cli.
package main

import (
	"os"

	"github.com/ericfisherdev/volunteer-tracker/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main provides the entry point for the lang-portal server.
package main

import (
	"fmt"
	"os"

	"lang-portal/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

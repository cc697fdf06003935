// Package main provides the entry point for the agentconf CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Azhovan/agentconf/cmd/agentconf/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

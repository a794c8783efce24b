package main

import (
	"os"

	"github.com/jlim/tickerpulse/cmd/pulse/commands"
)

// main is the entry point for the tickerpulse CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

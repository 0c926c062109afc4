package main

import (
	"os"

	"github.com/okian/pragati/cmd/pragatictl/commands"
)

// Version information - set during build
var version = "dev"

func main() {
	// errors are printed by the commands with color formatting
	if err := commands.Execute(version); err != nil {
		os.Exit(1)
	}
}

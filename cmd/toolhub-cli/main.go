package main

import (
	"os"

	"github.com/mcp-toolhub/toolhub/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/minibooks-dev/minibooks/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

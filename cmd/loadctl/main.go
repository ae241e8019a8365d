package main

import (
	"os"

	"github.com/loadkit/loadstate/cmd/loadctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

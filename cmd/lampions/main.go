package main

import (
	"os"

	"lampions/cmd/lampions/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

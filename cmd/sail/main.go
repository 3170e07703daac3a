package main

import (
	"os"

	"sail/cmd/sail/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/anay/litquest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/icebreaker-labs/icebreaker-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

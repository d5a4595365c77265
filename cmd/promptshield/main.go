package main

import (
	"os"

	"github.com/promptshield/promptshield/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/bidgoat/bidgoat/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

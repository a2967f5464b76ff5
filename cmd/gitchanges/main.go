package main

import (
	"os"

	"github.com/ariel-frischer/gitchanges/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}

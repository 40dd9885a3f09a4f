package main

import (
	"errors"
	"os"

	"bennypowers.dev/embedcss/internal/cli"
	"bennypowers.dev/embedcss/internal/log"
	"bennypowers.dev/embedcss/internal/parser"
)

func main() {
	os.Exit(run())
}

func run() int {
	defer parser.ClosePools()

	if err := cli.NewRootCommand().Execute(); err != nil {
		// ErrIssuesFound was already reported by the command
		if !errors.Is(err, cli.ErrIssuesFound) {
			log.Error("%v", err)
		}
		return 1
	}
	return 0
}

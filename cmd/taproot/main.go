package main

import (
	"os"

	"github.com/artisanexperiences/taproot/internal/cli"
)

// These variables are set at build time via -ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.BuildDate = date
	os.Exit(cli.ExitCode(cli.Execute()))
}

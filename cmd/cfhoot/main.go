package main

import (
	"os"

	"github.com/leo-ars/cfhoot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

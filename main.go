package main

import (
	"os"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/devgraph-ai/devgraph/cmd/devgraph"
)

func main() {
	if err := devgraph.Execute(); err != nil {
		os.Exit(1)
	}
}

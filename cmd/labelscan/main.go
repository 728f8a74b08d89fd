package main

import (
	"fmt"
	"os"

	"github.com/labelscan/backend/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "1.0.0"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

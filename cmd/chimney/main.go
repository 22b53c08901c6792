// Command chimney sends typed HTTP requests from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/kbukum/chimney/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

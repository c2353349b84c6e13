package main

import (
	"fmt"
	"os"

	"brewleaf/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "brewctl:", err)
		os.Exit(1)
	}
}

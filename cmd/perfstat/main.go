package main

import (
	"fmt"
	"os"

	"perfstat/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "perfstat: %v\n", err)
		os.Exit(1)
	}
}

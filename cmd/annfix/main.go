package main

import (
	"fmt"
	"os"

	"github.com/annlab/annfix/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "annfix:", err)
		os.Exit(1)
	}
}

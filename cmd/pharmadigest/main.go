package main

import (
	"fmt"
	"os"

	"PharmaDigest/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pharmadigest:", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/blocknet/go-blocknet/cmd/blocknet/launcher"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/jon4hz/vitrine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

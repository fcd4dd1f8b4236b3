package main

import (
	"os"

	"github.com/msto63/mDC/cmd/mdc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

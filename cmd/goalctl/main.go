package main

import (
	"os"

	"github.com/templui/goalpace/cmd/goalctl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

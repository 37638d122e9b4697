package main

import (
	"os"

	"github.com/gpv-monitor/gpv/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

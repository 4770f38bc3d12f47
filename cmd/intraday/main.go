package main

import (
	"os"

	"github.com/traderlab/intraday/cmd/intraday/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/bnema/intakebot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/iliyamo/cinema-seat-picker/internal/cli"
)

func main() {
	if err := cli.NewSimulateCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

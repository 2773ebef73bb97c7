package main

import (
	"os"

	"alcyxob/gym-coach/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

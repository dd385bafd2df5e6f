package main

import (
	"os"

	"github.com/ajsalpv/Job-Applying/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

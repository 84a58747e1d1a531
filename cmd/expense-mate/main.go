package main

import (
	"os"

	"github.com/drawar/expense-mate/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

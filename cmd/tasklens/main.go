package main

import (
	"os"

	"github.com/rpggio/tasklens/internal/commands"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		os.Exit(1)
	}
}

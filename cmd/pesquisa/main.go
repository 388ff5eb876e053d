package main

import (
	"os"

	"github.com/gfarias-dados/pesquisa-preco/cmd/pesquisa/commands"
)

// main is the entry point for the pesquisa CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

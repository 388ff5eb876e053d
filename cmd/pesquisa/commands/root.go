package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pesquisa",
	Short: "Pesquisa de Preço - pipeline semanal de preços do varejo",
	Long: `Pesquisa de Preço CLI

Coleta avaliações do Checklist Fácil, calcula a média de preço por
loja e produto e entrega a matriz em CSV e XLSX por e-mail.

Usage:
  go run ./cmd/pesquisa [command]

Examples:
  go run ./cmd/pesquisa run
  go run ./cmd/pesquisa run --date 2025-03-28
  go run ./cmd/pesquisa scheduler start
  go run ./cmd/pesquisa catalog stores`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

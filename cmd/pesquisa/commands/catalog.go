package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gfarias-dados/pesquisa-preco/internal/catalog"
)

// catalogCmd prints the embedded lookup tables.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Consulta as tabelas de lojas e produtos",
	Long: `Mostra as tabelas embutidas usadas pela pesquisa: lojas
conhecidas, apelidos de produto e a ordem fixa das colunas.

Subcommands:
  stores   - lojas conhecidas (nome -> id)
  products - apelidos de produto (nome -> código)
  columns  - ordem fixa das colunas da matriz

Example:
  go run ./cmd/pesquisa catalog stores`,
}

var (
	catalogStoresCmd = &cobra.Command{
		Use:   "stores",
		Short: "Lojas conhecidas",
		RunE:  showStores,
	}

	catalogProductsCmd = &cobra.Command{
		Use:   "products",
		Short: "Apelidos de produto",
		RunE:  showProducts,
	}

	catalogColumnsCmd = &cobra.Command{
		Use:   "columns",
		Short: "Ordem das colunas da matriz",
		RunE:  showColumns,
	}
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogStoresCmd)
	catalogCmd.AddCommand(catalogProductsCmd)
	catalogCmd.AddCommand(catalogColumnsCmd)
}

func showStores(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	names := cat.StoreNames()
	fmt.Printf("%d lojas conhecidas:\n", len(names))
	for _, name := range names {
		key, _ := cat.MapStore(name)
		fmt.Printf("  %-6s %s\n", key, name)
	}

	return nil
}

func showProducts(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	aliases := cat.ProductAliases()
	fmt.Printf("%d apelidos de produto:\n", len(aliases))
	for _, alias := range aliases {
		code, _ := cat.MapProduct(alias)
		fmt.Printf("  %-10s %s\n", code, alias)
	}

	return nil
}

func showColumns(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	for i, code := range cat.ColumnOrder() {
		fmt.Printf("  %2d. %s\n", i+1, code)
	}

	return nil
}

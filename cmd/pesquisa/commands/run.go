package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var runDate string

// runCmd executes one survey cycle immediately.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Executa uma coleta de pesquisa de preço agora",
	Long: `Executa o ciclo completo uma vez: busca as avaliações da janela,
calcula a matriz de médias e grava os arquivos CSV e XLSX.

A janela de coleta é derivada da data de referência (hoje, ou a data
passada em --date).

Example:
  go run ./cmd/pesquisa run
  go run ./cmd/pesquisa run --date 2025-03-28`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runDate, "date", "", "reference date (YYYY-MM-DD, default today)")
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, cfg, log, cleanup, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ref := time.Now().In(loc)
	if runDate != "" {
		ref, err = time.ParseInLocation("2006-01-02", runDate, loc)
		if err != nil {
			return fmt.Errorf("parse --date %q: %w", runDate, err)
		}
	}

	report, err := p.Run(ctx, ref)
	if err != nil {
		log.WithError(err).Error("Survey run failed")
		return err
	}

	fmt.Printf("Janela: %s a %s\n", report.WindowStart, report.WindowEnd)
	fmt.Printf("Avaliações: %d (falhas de fetch: %d)\n", report.Evaluations, report.FetchFailures)
	fmt.Printf("Linhas de preço: %d, lojas na matriz: %d\n", report.PriceRows, report.Stores)
	fmt.Printf("CSV:  %s\n", report.CSVPath)
	fmt.Printf("XLSX: %s\n", report.XLSXPath)
	if report.EmailSent {
		fmt.Println("E-mail enviado")
	} else {
		fmt.Println("E-mail não enviado (destinatários não configurados ou falha)")
	}

	return nil
}

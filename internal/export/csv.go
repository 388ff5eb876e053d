// Package export writes the price matrix to its two flat-file artifacts:
// a headerless delimited file for bulk load and a headered spreadsheet for
// human review.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gfarias-dados/pesquisa-preco/internal/pivot"
	"github.com/gfarias-dados/pesquisa-preco/pkg/logger"
)

// Writer writes matrix artifacts into an output directory.
type Writer struct {
	outputDir string
	logger    *logger.Logger
}

// NewWriter creates a matrix file writer.
func NewWriter(outputDir string, log *logger.Logger) *Writer {
	return &Writer{outputDir: outputDir, logger: log}
}

// BaseName derives the artifact file name stem from the run's label window.
func BaseName(m *pivot.Matrix) string {
	return fmt.Sprintf("resultado_pesquisa_preco_%s_%s", m.LabelStart, m.LabelEnd)
}

// WriteCSV writes the matrix without a header row, store key first, then
// the label columns, then every product cell. The bulk loader maps columns
// by position, so the layout must not change between runs.
func (w *Writer) WriteCSV(m *pivot.Matrix) (string, error) {
	path := filepath.Join(w.outputDir, BaseName(m)+".csv")

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	for _, row := range m.Rows {
		record := make([]string, 0, len(m.Columns)+3)
		record = append(record, row.StoreKey, m.LabelStart, m.LabelEnd)
		for _, cell := range row.Cells {
			record = append(record, pivot.CellString(cell))
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"path": path,
		"rows": len(m.Rows),
	}).Info("CSV artifact written")

	return path, nil
}

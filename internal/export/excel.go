package export

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/gfarias-dados/pesquisa-preco/internal/pivot"
)

const sheetName = "Pesquisa de Preço"

// WriteXLSX writes the matrix as a spreadsheet with a header row for human
// review. Cells keep their numeric type so the averages stay sortable;
// missing observations carry the NULL sentinel text.
func (w *Writer) WriteXLSX(m *pivot.Matrix) (string, error) {
	path := filepath.Join(w.outputDir, BaseName(m)+".xlsx")

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create header style: %w", err)
	}

	headers := append([]string{"unidade", "inicio", "fim"}, m.Columns...)
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range m.Rows {
		rowNum := rowIdx + 2

		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		f.SetCellValue(sheetName, cell, row.StoreKey)
		cell, _ = excelize.CoordinatesToCellName(2, rowNum)
		f.SetCellValue(sheetName, cell, m.LabelStart)
		cell, _ = excelize.CoordinatesToCellName(3, rowNum)
		f.SetCellValue(sheetName, cell, m.LabelEnd)

		for colIdx, value := range row.Cells {
			cell, _ = excelize.CoordinatesToCellName(colIdx+4, rowNum)
			if value == nil {
				f.SetCellValue(sheetName, cell, pivot.NullSentinel)
			} else {
				f.SetCellValue(sheetName, cell, *value)
			}
		}
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 12)
	}

	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save spreadsheet: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"path": path,
		"rows": len(m.Rows),
	}).Info("Spreadsheet artifact written")

	return path, nil
}

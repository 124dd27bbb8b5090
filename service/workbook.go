package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/ocr-invoice-extraction/dto"
)

const summarySheet = "Resumen_Factura"

// BuildSummaryWorkbook lays the records out on a single sheet with a header row.
// The caller owns the returned file and must close it.
func BuildSummaryWorkbook(records []dto.FlatRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	cols := dto.Columns()
	if err := writeRow(f, summarySheet, 1, cols); err != nil {
		f.Close()
		return nil, err
	}
	for i, record := range records {
		if err := writeRow(f, summarySheet, i+2, record.Values(cols)); err != nil {
			f.Close()
			return nil, err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(cols))
	_ = f.SetColWidth(summarySheet, "A", lastCol, 22)
	if descCol, err := columnName(cols, dto.ColDescription); err == nil {
		_ = f.SetColWidth(summarySheet, descCol, descCol, 40)
	}

	return f, nil
}

// columnName returns the sheet column letter holding the named column.
func columnName(cols []string, name string) (string, error) {
	for i, c := range cols {
		if c == name {
			return excelize.ColumnNumberToName(i + 1)
		}
	}
	return "", fmt.Errorf("column %s not in schema", name)
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

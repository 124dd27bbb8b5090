package service

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/ocr-invoice-extraction/dto"
)

// LoadTables reads every .xlsx workbook in dir and stacks their rows into one
// table, tagging each row with its file name. Files that fail to open are
// logged and skipped.
func LoadTables(dir string) (*dto.Table, error) {
	table := &dto.Table{Columns: []string{}, Rows: []map[string]string{}}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return table, nil
		}
		return nil, fmt.Errorf("failed to read data dir: %w", err)
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !dto.HasExtension(entry.Name(), ".xlsx") {
			continue
		}

		header, rows, err := readWorkbook(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Printf("Error reading %s: %v", entry.Name(), err)
			continue
		}

		header = append(header, dto.SourceColumn)
		for _, col := range header {
			if !seen[col] {
				seen[col] = true
				table.Columns = append(table.Columns, col)
			}
		}
		for _, row := range rows {
			row[dto.SourceColumn] = entry.Name()
			table.Rows = append(table.Rows, row)
		}
	}

	return table, nil
}

// readWorkbook returns the header and data rows of the first sheet.
func readWorkbook(path string) ([]string, []map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return []string{}, nil, nil
	}

	header := make([]string, 0, len(rows[0]))
	used := make(map[string]bool, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		name = uniqueColumn(name, used)
		used[name] = true
		header = append(header, name)
	}

	var records []map[string]string
	for _, cells := range rows[1:] {
		if isBlankRow(cells) {
			continue
		}
		record := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(cells) {
				record[col] = cells[i]
			} else {
				record[col] = ""
			}
		}
		records = append(records, record)
	}

	return header, records, nil
}

// uniqueColumn renames a repeated header to name.1, name.2, ... so no column
// shadows an earlier one.
func uniqueColumn(name string, used map[string]bool) string {
	if !used[name] {
		return name
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s.%d", name, n)
		if !used[candidate] {
			return candidate
		}
	}
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// FilterTable keeps the rows where any cell contains query, ignoring case.
// An empty query keeps every row.
func FilterTable(table *dto.Table, query string) *dto.Table {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return table
	}

	filtered := &dto.Table{Columns: table.Columns, Rows: []map[string]string{}}
	for _, row := range table.Rows {
		for _, v := range row {
			if strings.Contains(strings.ToLower(v), query) {
				filtered.Rows = append(filtered.Rows, row)
				break
			}
		}
	}
	return filtered
}

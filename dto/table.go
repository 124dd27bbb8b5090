package dto

// SourceColumn tags each row of a combined table with the workbook it came from.
const SourceColumn = "Archivo"

// Table is the union of several spreadsheets. Rows only carry the columns their
// source file had.
type Table struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// SearchResponse is returned by the table search endpoint.
type SearchResponse struct {
	Query   string              `json:"query"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
	Total   int                 `json:"total"`
}

// StoredTableResponse acknowledges a workbook saved into the data directory.
type StoredTableResponse struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

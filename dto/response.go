package dto

import "errors"

// Custom errors
var (
	ErrNoFile              = errors.New("no file selected")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrUnreadableDocument  = errors.New("unable to read document")
	ErrNoInvoiceData       = errors.New("no valid data found in the PDF")
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// InvoiceSummaryResponse is the JSON rendition of an extracted invoice.
type InvoiceSummaryResponse struct {
	SourceFile  string       `json:"source_file"`
	OutputFile  string       `json:"output_file"`
	Columns     []string     `json:"columns"`
	Records     []FlatRecord `json:"records"`
	ProcessedAt string       `json:"processed_at"`
}

package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Aashish23092/ocr-invoice-extraction/dto"
	"github.com/Aashish23092/ocr-invoice-extraction/utils"
)

// InvoiceSummary is the outcome of processing one uploaded invoice.
type InvoiceSummary struct {
	SourcePath string
	OutputPath string
	Records    []dto.FlatRecord
}

type InvoiceService struct {
	pdfProcessor PDFProcessor
	policy       dto.ExtractionPolicy
	uploadDir    string
	now          func() time.Time
}

func NewInvoiceService(pdfProcessor PDFProcessor, policy dto.ExtractionPolicy, uploadDir string) *InvoiceService {
	return &InvoiceService{
		pdfProcessor: pdfProcessor,
		policy:       policy,
		uploadDir:    uploadDir,
		now:          time.Now,
	}
}

// ExtractInvoice pulls the billing fields out of a three-page invoice PDF.
func (s *InvoiceService) ExtractInvoice(pdfData []byte, password string) (*dto.InvoiceExtractionResult, error) {
	pages, err := s.pdfProcessor.ExtractPages(pdfData, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrUnreadableDocument, err)
	}
	if !pages.HasText() {
		return nil, dto.ErrNoInvoiceData
	}

	result := utils.ExtractInvoice(pages, s.policy)
	log.Printf("Invoice extracted: %d pages, %d services, subtotal %s",
		len(pages), len(result.Services), result.Subtotal)

	return result, nil
}

// Summarize stores the uploaded PDF, extracts it and writes the summary
// workbook next to it.
func (s *InvoiceService) Summarize(ctx context.Context, filename string, pdfData []byte, password string) (*InvoiceSummary, error) {
	if !dto.HasExtension(filename, ".pdf") {
		return nil, dto.ErrUnsupportedFileType
	}
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	stamp := s.now().Format("20060102_150405")
	id := uuid.NewString()[:8]

	sourcePath := filepath.Join(s.uploadDir, fmt.Sprintf("%s_%s_%s", stamp, id, SanitizeFilename(filename)))
	if err := os.WriteFile(sourcePath, pdfData, 0644); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.ExtractInvoice(pdfData, password)
	if err != nil {
		return nil, err
	}

	records := AssembleRecords(result, s.policy)
	if len(records) == 0 {
		return nil, dto.ErrNoInvoiceData
	}

	wb, err := BuildSummaryWorkbook(records)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	outputPath := filepath.Join(s.uploadDir, fmt.Sprintf("factura_resumen_%s_%s.xlsx", stamp, id))
	if err := wb.SaveAs(outputPath); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	log.Printf("Summary written to %s (%d rows)", outputPath, len(records))

	return &InvoiceSummary{
		SourcePath: sourcePath,
		OutputPath: outputPath,
		Records:    records,
	}, nil
}

// SanitizeFilename drops any directory part and keeps a conservative set of
// characters.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	clean := strings.Trim(b.String(), "._")
	if clean == "" {
		return "upload"
	}
	return clean
}

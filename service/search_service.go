package service

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/ocr-invoice-extraction/dto"
)

// SearchService answers free-text queries over the workbooks in the data directory.
type SearchService struct {
	dataDir string
	now     func() time.Time
}

func NewSearchService(dataDir string) *SearchService {
	return &SearchService{dataDir: dataDir, now: time.Now}
}

// Search loads every workbook and keeps the rows matching query.
func (s *SearchService) Search(query string) (*dto.SearchResponse, error) {
	table, err := LoadTables(s.dataDir)
	if err != nil {
		return nil, err
	}

	filtered := FilterTable(table, query)
	log.Printf("Search %q matched %d of %d rows", query, filtered.Len(), table.Len())

	return &dto.SearchResponse{
		Query:   query,
		Columns: filtered.Columns,
		Rows:    filtered.Rows,
		Total:   filtered.Len(),
	}, nil
}

// StoreTable adds a workbook to the data directory. Existing files are never
// overwritten.
func (s *SearchService) StoreTable(filename string, data []byte) (string, error) {
	if !dto.HasExtension(filename, ".xlsx") {
		return "", dto.ErrUnsupportedFileType
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", dto.ErrUnreadableDocument, err)
	}
	f.Close()

	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s", s.now().Format("20060102_150405"), uuid.NewString()[:8], SanitizeFilename(filename))
	path := filepath.Join(s.dataDir, name)

	if err := writeNewFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to store table: %w", err)
	}

	log.Printf("Stored table %s", name)
	return name, nil
}

// writeNewFile creates path, failing if it exists, and copies src into it. A
// failed copy removes the file so readers never see a truncated workbook.
func writeNewFile(path string, src io.Reader) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

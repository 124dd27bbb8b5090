package dto

import (
	"mime/multipart"
	"path/filepath"
	"strings"
)

// InvoiceUploadRequest represents the incoming invoice upload
type InvoiceUploadRequest struct {
	File     *multipart.FileHeader `form:"pdf" binding:"required"`
	Password string                `form:"password"`
}

// Validate performs basic validation on the request. maxSize <= 0 disables
// the size check.
func (r *InvoiceUploadRequest) Validate(maxSize int64) error {
	if r.File == nil || r.File.Filename == "" {
		return ErrNoFile
	}
	if !HasExtension(r.File.Filename, ".pdf") {
		return ErrUnsupportedFileType
	}
	return checkSize(r.File, maxSize)
}

// TableUploadRequest represents a spreadsheet added to the search data set
type TableUploadRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

func (r *TableUploadRequest) Validate(maxSize int64) error {
	if r.File == nil || r.File.Filename == "" {
		return ErrNoFile
	}
	if !HasExtension(r.File.Filename, ".xlsx") {
		return ErrUnsupportedFileType
	}
	return checkSize(r.File, maxSize)
}

func checkSize(file *multipart.FileHeader, maxSize int64) error {
	if maxSize > 0 && file.Size > maxSize {
		return ErrFileTooLarge
	}
	return nil
}

// HasExtension compares a file name's extension case-insensitively.
func HasExtension(filename, ext string) bool {
	return strings.EqualFold(filepath.Ext(filename), ext)
}

package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Aashish23092/ocr-invoice-extraction/dto"
	"github.com/Aashish23092/ocr-invoice-extraction/service"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	maxFileSize    int64
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, maxFileSize int64) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		maxFileSize:    maxFileSize,
	}
}

// ExtractInvoice handles the POST /invoices/extract endpoint
func (h *InvoiceHandler) ExtractInvoice(c *gin.Context) {
	log.Println("Received invoice extraction request")

	var request dto.InvoiceUploadRequest
	request.File, _ = c.FormFile("pdf")
	request.Password = c.PostForm("password")

	if err := request.Validate(h.maxFileSize); err != nil {
		sendError(c, statusFor(err), "INVALID_UPLOAD", err)
		return
	}

	f, err := request.File.Open()
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_UPLOAD", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_UPLOAD", err)
		return
	}

	summary, err := h.invoiceService.Summarize(c.Request.Context(), request.File.Filename, data, request.Password)
	if err != nil {
		sendError(c, statusFor(err), "EXTRACTION_FAILED", err)
		return
	}

	log.Printf("Invoice %s processed into %d rows", request.File.Filename, len(summary.Records))

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, dto.InvoiceSummaryResponse{
			SourceFile:  filepath.Base(summary.SourcePath),
			OutputFile:  filepath.Base(summary.OutputPath),
			Columns:     dto.Columns(),
			Records:     summary.Records,
			ProcessedAt: time.Now().Format(time.RFC3339),
		})
		return
	}

	c.FileAttachment(summary.OutputPath, filepath.Base(summary.OutputPath))
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dto.ErrNoFile), errors.Is(err, dto.ErrUnsupportedFileType):
		return http.StatusBadRequest
	case errors.Is(err, dto.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, dto.ErrUnreadableDocument), errors.Is(err, dto.ErrNoInvoiceData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// sendError sends a structured error response
func sendError(c *gin.Context, statusCode int, code string, err error) {
	log.Printf("Error: %s - %v", code, err)

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: err.Error(),
		Code:    statusCode,
	})
}

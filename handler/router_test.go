package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aashish23092/ocr-invoice-extraction/dto"
	"github.com/Aashish23092/ocr-invoice-extraction/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubPDFProcessor struct {
	pages dto.PageTexts
}

func (s *stubPDFProcessor) ExtractPages(pdfData []byte, password string) (dto.PageTexts, error) {
	return s.pages, nil
}

func newTestRouter(t *testing.T, pages dto.PageTexts) *gin.Engine {
	t.Helper()
	return newTestRouterWithLimit(t, pages, 8<<20)
}

func newTestRouterWithLimit(t *testing.T, pages dto.PageTexts, maxFileSize int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	invoiceService := service.NewInvoiceService(&stubPDFProcessor{pages: pages}, dto.DefaultExtractionPolicy(), t.TempDir())
	searchService := service.NewSearchService(t.TempDir())

	return NewRouter(
		NewInvoiceHandler(invoiceService, maxFileSize),
		NewSearchHandler(searchService, maxFileSize),
		maxFileSize,
	)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

var testPages = dto.PageTexts{
	"FACTURA ELECTRÓNICA DE VENTA: 555\nTOTAL A PAGAR: $ 100",
	"Total IVA $ 19",
	"BLS0152 Internet access $10.00 $12.00\nSUBTOTAL: $12.00",
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, testPages)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestExtractInvoiceJSON(t *testing.T) {
	router := newTestRouter(t, testPages)
	body, contentType := multipartBody(t, "pdf", "factura.pdf", []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/extract?format=json", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.InvoiceSummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.Columns(), resp.Columns)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "555", resp.Records[0][dto.FieldInvoiceNumber])
	assert.Equal(t, dto.NotFound, resp.Records[0][dto.FieldCutoffDate])
	assert.Equal(t, "$19", resp.Records[0][dto.FieldTotalVAT])
	assert.Equal(t, dto.SubtotalMarker, resp.Records[1][dto.ColServiceCode])
}

func TestExtractInvoiceAttachment(t *testing.T) {
	router := newTestRouter(t, testPages)
	body, contentType := multipartBody(t, "pdf", "factura.pdf", []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/extract", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "factura_resumen_")

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Resumen_Factura")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExtractInvoiceRejectsBadUploads(t *testing.T) {
	router := newTestRouter(t, testPages)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/invoices/extract", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, contentType := multipartBody(t, "pdf", "factura.png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/extract", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_UPLOAD", resp.Error)
}

func TestExtractInvoiceEmptyDocument(t *testing.T) {
	router := newTestRouter(t, dto.PageTexts{""})
	body, contentType := multipartBody(t, "pdf", "blank.pdf", []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/extract", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUploadAndSearchTables(t *testing.T) {
	router := newTestRouter(t, testPages)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"CODIGO_SERVICIO", "DESCRIPCION"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"BLS0152", "Internet access"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	body, contentType := multipartBody(t, "file", "servicios.xlsx", buf.Bytes())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tables", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tables/search?q=internet", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internet", resp.Query)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "BLS0152", resp.Rows[0][dto.ColServiceCode])
}

func TestUploadsOverSizeLimitAreRejected(t *testing.T) {
	router := newTestRouterWithLimit(t, testPages, 1<<20)
	big := bytes.Repeat([]byte("0"), 5<<20)

	body, contentType := multipartBody(t, "pdf", "big.pdf", big)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/extract", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_UPLOAD", resp.Error)
	assert.Equal(t, dto.ErrFileTooLarge.Error(), resp.Message)

	body, contentType = multipartBody(t, "file", "big.xlsx", big)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/tables", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestUploadUnderSizeLimitIsAccepted(t *testing.T) {
	router := newTestRouterWithLimit(t, testPages, 1<<20)
	body, contentType := multipartBody(t, "pdf", "factura.pdf", bytes.Repeat([]byte("0"), 512<<10))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/extract?format=json", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

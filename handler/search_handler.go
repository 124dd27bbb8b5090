package handler

import (
	"io"
	"net/http"

	"github.com/Aashish23092/ocr-invoice-extraction/dto"
	"github.com/Aashish23092/ocr-invoice-extraction/service"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService *service.SearchService
	maxFileSize   int64
}

func NewSearchHandler(searchService *service.SearchService, maxFileSize int64) *SearchHandler {
	return &SearchHandler{searchService: searchService, maxFileSize: maxFileSize}
}

// Search handles GET /tables/search?q=
func (h *SearchHandler) Search(c *gin.Context) {
	resp, err := h.searchService.Search(c.Query("q"))
	if err != nil {
		sendError(c, http.StatusInternalServerError, "SEARCH_FAILED", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UploadTable handles POST /tables
func (h *SearchHandler) UploadTable(c *gin.Context) {
	var request dto.TableUploadRequest
	request.File, _ = c.FormFile("file")

	if err := request.Validate(h.maxFileSize); err != nil {
		sendError(c, statusFor(err), "INVALID_UPLOAD", err)
		return
	}

	file, err := request.File.Open()
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_UPLOAD", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_UPLOAD", err)
		return
	}

	name, err := h.searchService.StoreTable(request.File.Filename, data)
	if err != nil {
		sendError(c, statusFor(err), "STORE_FAILED", err)
		return
	}

	c.JSON(http.StatusCreated, dto.StoredTableResponse{
		Filename: name,
		Message:  "table stored",
	})
}

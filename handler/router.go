package handler

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP routes.
func NewRouter(invoiceHandler *InvoiceHandler, searchHandler *SearchHandler, maxMultipartMemory int64) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = maxMultipartMemory

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Invoice Extraction",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		invoices := api.Group("/invoices")
		{
			invoices.POST("/extract", invoiceHandler.ExtractInvoice)
		}

		tables := api.Group("/tables")
		{
			tables.GET("/search", searchHandler.Search)
			tables.POST("", searchHandler.UploadTable)
		}
	}

	return router
}

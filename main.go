package main

import (
	"log"
	"os"

	"github.com/Aashish23092/ocr-invoice-extraction/config"
	"github.com/Aashish23092/ocr-invoice-extraction/handler"
	"github.com/Aashish23092/ocr-invoice-extraction/service"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	for _, dir := range []string{cfg.UploadDir, cfg.DataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	log.Printf("Uploads: %s, data: %s, policy: %+v", cfg.UploadDir, cfg.DataDir, cfg.Policy)

	// Initialize service layer
	pdfProcessor := service.NewPDFProcessor()
	invoiceService := service.NewInvoiceService(pdfProcessor, cfg.Policy, cfg.UploadDir)
	searchService := service.NewSearchService(cfg.DataDir)

	// Initialize handler layer
	router := handler.NewRouter(
		handler.NewInvoiceHandler(invoiceService, cfg.MaxFileSize),
		handler.NewSearchHandler(searchService, cfg.MaxFileSize),
		cfg.MaxFileSize,
	)

	// Start server
	log.Printf("Starting Invoice Extraction Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

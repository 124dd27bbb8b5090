package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Aashish23092/ocr-invoice-extraction/dto"
)

type Config struct {
	ServerPort  string
	UploadDir   string
	DataDir     string
	MaxFileSize int64
	Policy      dto.ExtractionPolicy
}

// LoadConfig reads the environment, after loading a .env file when one exists.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	defaults := dto.DefaultExtractionPolicy()

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		DataDir:     getEnv("DATA_DIR", "data"),
		MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE_MB", 32) << 20,
		Policy: dto.ExtractionPolicy{
			AppendSubtotalRow: getEnvAsBool("APPEND_SUBTOTAL_ROW", defaults.AppendSubtotalRow),
			ParseQuantity:     getEnvAsBool("PARSE_SERVICE_QUANTITY", defaults.ParseQuantity),
			LazySubtotalScan:  getEnvAsBool("LAZY_SUBTOTAL_SCAN", defaults.LazySubtotalScan),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
			return n
		}
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Warning: invalid %s=%q, using %t", key, value, defaultValue)
	}
	return defaultValue
}

// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port               string
	ProjectID          string
	PDFCollection      string
	SentenceCollection string
	BlobBucket         string
	MaxUploadBytes     int64
	RenderWorkers      int
	SearchWorkers      int
}

// GetEnv reads an environment variable or returns a fallback value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// Load reads and validates the service configuration.
func Load() (Config, error) {
	cfg := Config{
		Port:               GetEnv("PORT", "8080"),
		ProjectID:          GetEnv("PROJECT_ID", ""),
		PDFCollection:      GetEnv("FIRESTORE_PDF_COLLECTION", "pdfs"),
		SentenceCollection: GetEnv("FIRESTORE_SENTENCE_COLLECTION", "sentences"),
		BlobBucket:         GetEnv("BLOB_BUCKET", ""),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_MB", 64)) << 20,
		RenderWorkers:      getEnvInt("RENDER_WORKERS", 4),
		SearchWorkers:      getEnvInt("SEARCH_WORKERS", 8),
	}
	if cfg.ProjectID == "" {
		return Config{}, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	if cfg.BlobBucket == "" {
		return Config{}, fmt.Errorf("BLOB_BUCKET environment variable must be set")
	}
	return cfg, nil
}

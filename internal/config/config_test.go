package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PROJECT_ID", "test-project")
	t.Setenv("BLOB_BUCKET", "test-bucket")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.PDFCollection != "pdfs" || cfg.SentenceCollection != "sentences" {
		t.Errorf("collections = %q/%q", cfg.PDFCollection, cfg.SentenceCollection)
	}
	if cfg.MaxUploadBytes != 64<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 64<<20)
	}
	if cfg.RenderWorkers != 4 || cfg.SearchWorkers != 8 {
		t.Errorf("workers = %d/%d", cfg.RenderWorkers, cfg.SearchWorkers)
	}
}

func TestLoadRequiresProjectAndBucket(t *testing.T) {
	t.Setenv("PROJECT_ID", "")
	t.Setenv("BLOB_BUCKET", "b")
	if _, err := Load(); err == nil {
		t.Error("Load without PROJECT_ID should fail")
	}

	t.Setenv("PROJECT_ID", "p")
	t.Setenv("BLOB_BUCKET", "")
	if _, err := Load(); err == nil {
		t.Error("Load without BLOB_BUCKET should fail")
	}
}

func TestGetEnvIntFallback(t *testing.T) {
	t.Setenv("PROJECT_ID", "p")
	t.Setenv("BLOB_BUCKET", "b")
	t.Setenv("RENDER_WORKERS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RenderWorkers != 4 {
		t.Errorf("RenderWorkers = %d, want fallback 4", cfg.RenderWorkers)
	}
}

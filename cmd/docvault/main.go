package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/docvault/docvault/internal/config"
	"github.com/docvault/docvault/internal/gcp"
	"github.com/docvault/docvault/internal/pdf"
	"github.com/docvault/docvault/internal/server"
	"github.com/docvault/docvault/internal/services"
	"github.com/docvault/docvault/internal/store"
	"github.com/docvault/docvault/internal/text"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration.", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	firestoreClient, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID)
	if err != nil {
		slog.Error("Failed to create Firestore client.", "error", err)
		os.Exit(1)
	}
	defer firestoreClient.Close()

	storageClient, err := gcp.NewStorageClient(ctx, cfg.BlobBucket)
	if err != nil {
		slog.Error("Failed to create Storage client.", "error", err)
		os.Exit(1)
	}
	defer storageClient.Close()

	segmenter, err := text.NewSegmenter()
	if err != nil {
		slog.Error("Failed to load sentence tokenizer.", "error", err)
		os.Exit(1)
	}

	meta := store.NewFirestoreStore(firestoreClient, cfg.PDFCollection, cfg.SentenceCollection)
	blobs := store.NewGCSBlobStore(storageClient, cfg.BlobBucket)

	ingester := services.NewIngester(meta, blobs, pdf.NewExtractor(), segmenter)
	library := services.NewLibrary(meta, blobs, pdf.NewRasterizer(cfg.RenderWorkers), cfg.SearchWorkers)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.New(ingester, library, cfg.MaxUploadBytes).Router(),
	}

	go func() {
		slog.Info("docvault listening.", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed.", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed.", "error", err)
	}
}

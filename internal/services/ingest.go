// Package services implements the document pipeline: ingestion of uploaded
// PDFs into the metadata and blob stores, and retrieval/search over what
// ingestion produced.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/docvault/docvault/internal/docerr"
	"github.com/docvault/docvault/internal/models"
	"github.com/docvault/docvault/internal/pdf"
	"github.com/docvault/docvault/internal/store"
)

const pdfContentType = "application/pdf"

// BlobKey is the object-store key for a document's original bytes.
func BlobKey(documentID string) string {
	return documentID + ".pdf"
}

// TextExtractor derives page count and first-page text from a staged PDF.
type TextExtractor interface {
	Extract(path string) (pdf.Extraction, error)
}

// SentenceSegmenter splits plain text into ordered sentences.
type SentenceSegmenter interface {
	Segment(text string) []string
}

// Ingester runs the upload pipeline: validate, stage, extract, segment,
// persist sentences, persist metadata, persist blob.
type Ingester struct {
	meta      store.MetadataStore
	blobs     store.BlobStore
	extractor TextExtractor
	segmenter SentenceSegmenter
}

func NewIngester(meta store.MetadataStore, blobs store.BlobStore, extractor TextExtractor, segmenter SentenceSegmenter) *Ingester {
	return &Ingester{meta: meta, blobs: blobs, extractor: extractor, segmenter: segmenter}
}

// Ingest processes one uploaded file and returns the new document id.
//
// Failures up to and including the metadata write abort the request and
// leave no records behind. A blob-store failure after the metadata write is
// logged and reported through the returned id anyway: the document store is
// the source of truth for existence, and readers tolerate a missing blob.
func (g *Ingester) Ingest(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	const op = "services.Ingest"
	logCtx := slog.With("filename", filename)

	if contentType != pdfContentType {
		return "", docerr.Newf(docerr.KindUnsupportedMediaType, op, "file %s is not pdf", filename)
	}

	tmp, err := os.CreateTemp("", "docvault-upload-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, content)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("failed to stage upload to %s: %w", tmpPath, err)
	}
	logCtx = logCtx.With("size", size)

	extraction, err := g.extractor.Extract(tmpPath)
	if err != nil {
		logCtx.Error("Extraction failed, rejecting upload.", "error", err)
		return "", err
	}

	sens := g.segmenter.Segment(extraction.FirstPageText)

	sentencesID, err := g.meta.InsertSentences(ctx, models.SentenceRecord{Sentences: sens})
	if err != nil {
		logCtx.Error("Failed to persist sentence record.", "error", err)
		return "", err
	}

	doc := models.Document{
		Name:        filename,
		UploadTime:  time.Now().UTC().Format(time.RFC3339),
		Size:        size,
		Pages:       extraction.Pages,
		SentencesID: sentencesID,
	}
	docID, err := g.meta.InsertDocument(ctx, doc)
	if err != nil {
		logCtx.Error("Failed to persist document metadata.", "error", err)
		// The sentence record is orphaned without its document; remove it so
		// a failed upload leaves nothing behind.
		if derr := g.meta.DeleteSentences(ctx, sentencesID); derr != nil {
			logCtx.Warn("Failed to clean up orphaned sentence record.", "sentencesId", sentencesID, "error", derr)
		}
		return "", err
	}
	logCtx = logCtx.With("documentId", docID)

	data, err := os.ReadFile(tmpPath)
	if err == nil {
		err = g.blobs.Put(ctx, BlobKey(docID), data)
	}
	if err != nil {
		// Metadata already committed; the upload still succeeds and the
		// missing blob surfaces to readers as blob_missing.
		logCtx.Warn("Best-effort blob upload failed; document has no stored PDF.", "error", err)
	}

	logCtx.Info("Document ingested.", "pages", extraction.Pages, "sentences", len(sens))
	return docID, nil
}

// Delete removes a document, its sentence record and its blob. The blob
// delete is best-effort: metadata removal is what makes the document gone.
func (g *Ingester) Delete(ctx context.Context, id string) error {
	doc, err := g.meta.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if doc.SentencesID != "" {
		if err := g.meta.DeleteSentences(ctx, doc.SentencesID); err != nil {
			return err
		}
	}
	if err := g.meta.DeleteDocument(ctx, id); err != nil {
		return err
	}
	if err := g.blobs.Delete(ctx, BlobKey(id)); err != nil {
		slog.Warn("Best-effort blob delete failed; orphaned blob remains.", "documentId", id, "error", err)
	}
	slog.Info("Document deleted.", "documentId", id)
	return nil
}

package services

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/docvault/docvault/internal/docerr"
	"github.com/docvault/docvault/internal/models"
	"github.com/docvault/docvault/internal/store"
	"github.com/docvault/docvault/internal/text"
)

// PageRenderer rasterizes one 1-based page of a PDF to JPEG bytes.
type PageRenderer interface {
	Render(ctx context.Context, data []byte, page int) ([]byte, error)
}

// Library serves reads over ingested documents: metadata, sentences, blob
// and page downloads, substring search, and lexical summaries.
type Library struct {
	meta        store.MetadataStore
	blobs       store.BlobStore
	renderer    PageRenderer
	searchLimit int
}

func NewLibrary(meta store.MetadataStore, blobs store.BlobStore, renderer PageRenderer, searchLimit int) *Library {
	if searchLimit < 1 {
		searchLimit = 1
	}
	return &Library{meta: meta, blobs: blobs, renderer: renderer, searchLimit: searchLimit}
}

// GetMetadata returns the full document record.
func (l *Library) GetMetadata(ctx context.Context, id string) (models.Document, error) {
	return l.meta.GetDocument(ctx, id)
}

// ListAll returns every document's metadata without sentence references.
func (l *Library) ListAll(ctx context.Context) ([]models.Document, error) {
	return l.meta.ListDocuments(ctx)
}

// GetSentences resolves a document's sentence record. A document whose
// sentence reference is empty or dangling yields not_found scoped to the
// sentences, distinct from the document itself being absent.
func (l *Library) GetSentences(ctx context.Context, id string) (models.SentenceRecord, error) {
	doc, err := l.meta.GetDocument(ctx, id)
	if err != nil {
		return models.SentenceRecord{}, err
	}
	if doc.SentencesID == "" {
		return models.SentenceRecord{}, docerr.Newf(docerr.KindNotFound, "services.GetSentences", "document %s has no sentence record", id)
	}
	return l.meta.GetSentences(ctx, doc.SentencesID)
}

// DownloadBlob returns the original PDF bytes and the document record, so
// callers can name the download after the original file.
func (l *Library) DownloadBlob(ctx context.Context, id string) ([]byte, models.Document, error) {
	doc, err := l.meta.GetDocument(ctx, id)
	if err != nil {
		return nil, models.Document{}, err
	}
	data, err := l.blobs.Get(ctx, BlobKey(id))
	if err != nil {
		return nil, models.Document{}, err
	}
	return data, doc, nil
}

// DownloadPage renders one page of a document as JPEG. The stored page
// count is only a fast pre-check; the renderer re-derives the real count
// from the blob and has the final say.
func (l *Library) DownloadPage(ctx context.Context, id string, page int) ([]byte, models.Document, error) {
	doc, err := l.meta.GetDocument(ctx, id)
	if err != nil {
		return nil, models.Document{}, err
	}
	if page < 1 || page > doc.Pages {
		return nil, models.Document{}, docerr.Newf(docerr.KindPageOutOfRange, "services.DownloadPage", "invalid page number %d: document has %d pages", page, doc.Pages)
	}
	data, err := l.blobs.Get(ctx, BlobKey(id))
	if err != nil {
		return nil, models.Document{}, err
	}
	img, err := l.renderer.Render(ctx, data, page)
	if err != nil {
		return nil, models.Document{}, err
	}
	return img, doc, nil
}

// Search counts case-insensitive, non-overlapping occurrences of query in
// each sentence of the document and returns the matching sentences in
// reading order. An empty query matches nothing.
func (l *Library) Search(ctx context.Context, id, query string) (models.SearchResult, error) {
	rec, err := l.GetSentences(ctx, id)
	if err != nil {
		return models.SearchResult{}, err
	}
	return searchSentences(rec.Sentences, query), nil
}

func searchSentences(sens []string, query string) models.SearchResult {
	result := models.SearchResult{Sentences: []string{}}
	q := strings.ToLower(query)
	if q == "" {
		return result
	}
	for _, sen := range sens {
		if n := strings.Count(strings.ToLower(sen), q); n > 0 {
			result.Occurrence += n
			result.Sentences = append(result.Sentences, sen)
		}
	}
	return result
}

// SearchAll fans the search out over every document and keeps the ones
// with at least one occurrence. IDs follow metadata-store iteration order;
// results land in an index-addressed slice so the bounded parallelism
// cannot reorder them.
func (l *Library) SearchAll(ctx context.Context, query string) (models.CorpusSearchResult, error) {
	docs, err := l.meta.ListDocuments(ctx)
	if err != nil {
		return models.CorpusSearchResult{}, err
	}

	results := make([]models.SearchResult, len(docs))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(l.searchLimit)
	for i, doc := range docs {
		eg.Go(func() error {
			r, err := l.Search(gctx, doc.ID, query)
			if err != nil {
				// A document without a resolvable sentence record, or one
				// deleted since the listing, counts as zero occurrences
				// rather than failing the whole corpus search.
				if docerr.IsNotFound(err) {
					slog.Debug("Skipping document without sentences in corpus search.", "documentId", doc.ID)
					return nil
				}
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return models.CorpusSearchResult{}, err
	}

	out := models.CorpusSearchResult{
		IDs:     []string{},
		Results: make(map[string]models.SearchResult),
	}
	for i, doc := range docs {
		if results[i].Occurrence == 0 {
			continue
		}
		out.IDs = append(out.IDs, doc.ID)
		out.Results[doc.ID] = results[i]
	}
	return out, nil
}

// TopWords returns the n most frequent non-stopword tokens of a document.
func (l *Library) TopWords(ctx context.Context, id string, n int) ([]models.WordCount, error) {
	rec, err := l.GetSentences(ctx, id)
	if err != nil {
		return nil, err
	}
	return text.TopWords(rec.Sentences, n), nil
}

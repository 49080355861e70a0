// Package store provides the two storage backends the service writes to: a
// document database for metadata and sentence records, and an object store
// for the original PDF bytes. Production uses Firestore and Cloud Storage;
// tests use the in-memory implementations.
package store

import (
	"context"

	"github.com/docvault/docvault/internal/models"
)

// MetadataStore persists document metadata and sentence records. The store
// generates record identifiers on insert. Absent records surface as
// docerr.KindNotFound; backend failures as docerr.KindStorageUnavailable.
type MetadataStore interface {
	InsertDocument(ctx context.Context, doc models.Document) (string, error)
	GetDocument(ctx context.Context, id string) (models.Document, error)
	// ListDocuments returns all documents in store iteration order with
	// SentencesID projected away.
	ListDocuments(ctx context.Context) ([]models.Document, error)
	DeleteDocument(ctx context.Context, id string) error

	InsertSentences(ctx context.Context, rec models.SentenceRecord) (string, error)
	GetSentences(ctx context.Context, id string) (models.SentenceRecord, error)
	DeleteSentences(ctx context.Context, id string) error
}

// BlobStore persists opaque byte blobs by key. Get on an absent key fails
// with docerr.KindBlobMissing; Delete on an absent key is not an error.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

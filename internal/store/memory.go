package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/docvault/docvault/internal/docerr"
	"github.com/docvault/docvault/internal/models"
)

// MemoryStore is an in-memory MetadataStore for tests and local runs.
// Iteration order is insertion order, matching the deterministic-listing
// contract of ListDocuments.
type MemoryStore struct {
	mu        sync.RWMutex
	docs      map[string]models.Document
	docOrder  []string
	sentences map[string]models.SentenceRecord
}

var _ MetadataStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:      make(map[string]models.Document),
		sentences: make(map[string]models.SentenceRecord),
	}
}

func (s *MemoryStore) InsertDocument(_ context.Context, doc models.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	doc.ID = id
	s.docs[id] = doc
	s.docOrder = append(s.docOrder, id)
	return id, nil
}

func (s *MemoryStore) GetDocument(_ context.Context, id string) (models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return models.Document{}, docerr.Newf(docerr.KindNotFound, "store.GetDocument", "no document exists with id %s", id)
	}
	return doc, nil
}

func (s *MemoryStore) ListDocuments(_ context.Context) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]models.Document, 0, len(s.docOrder))
	for _, id := range s.docOrder {
		doc := s.docs[id]
		doc.SentencesID = ""
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *MemoryStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	for i, d := range s.docOrder {
		if d == id {
			s.docOrder = append(s.docOrder[:i], s.docOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) InsertSentences(_ context.Context, rec models.SentenceRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	rec.ID = id
	s.sentences[id] = rec
	return id, nil
}

func (s *MemoryStore) GetSentences(_ context.Context, id string) (models.SentenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sentences[id]
	if !ok {
		return models.SentenceRecord{}, docerr.Newf(docerr.KindNotFound, "store.GetSentences", "no sentence record exists with id %s", id)
	}
	return rec, nil
}

func (s *MemoryStore) DeleteSentences(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sentences, id)
	return nil
}

// MemoryBlobStore is an in-memory BlobStore for tests and local runs.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ BlobStore = (*MemoryBlobStore)(nil)

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[key] = cp
	return nil
}

func (s *MemoryBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, docerr.Newf(docerr.KindBlobMissing, "store.Get", "no blob stored under %s", key)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *MemoryBlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

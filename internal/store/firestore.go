package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/docvault/docvault/internal/docerr"
	"github.com/docvault/docvault/internal/models"
)

// FirestoreStore implements MetadataStore on two Firestore collections, one
// for document metadata and one for sentence records.
type FirestoreStore struct {
	client             *firestore.Client
	pdfCollection      string
	sentenceCollection string
}

var _ MetadataStore = (*FirestoreStore)(nil)

func NewFirestoreStore(client *firestore.Client, pdfCollection, sentenceCollection string) *FirestoreStore {
	return &FirestoreStore{
		client:             client,
		pdfCollection:      pdfCollection,
		sentenceCollection: sentenceCollection,
	}
}

func (s *FirestoreStore) InsertDocument(ctx context.Context, doc models.Document) (string, error) {
	ref, _, err := s.client.Collection(s.pdfCollection).Add(ctx, doc)
	if err != nil {
		return "", docerr.Wrap(docerr.KindStorageUnavailable, "store.InsertDocument", "failed to insert document", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) GetDocument(ctx context.Context, id string) (models.Document, error) {
	snap, err := s.client.Collection(s.pdfCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.Document{}, docerr.Newf(docerr.KindNotFound, "store.GetDocument", "no document exists with id %s", id)
		}
		return models.Document{}, docerr.Wrap(docerr.KindStorageUnavailable, "store.GetDocument", "failed to read document", err)
	}
	var doc models.Document
	if err := snap.DataTo(&doc); err != nil {
		return models.Document{}, docerr.Wrap(docerr.KindStorageUnavailable, "store.GetDocument", "failed to decode document", err)
	}
	doc.ID = snap.Ref.ID
	return doc, nil
}

func (s *FirestoreStore) ListDocuments(ctx context.Context) ([]models.Document, error) {
	docs := []models.Document{}
	it := s.client.Collection(s.pdfCollection).Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, docerr.Wrap(docerr.KindStorageUnavailable, "store.ListDocuments", "failed to iterate documents", err)
		}
		var doc models.Document
		if err := snap.DataTo(&doc); err != nil {
			return nil, docerr.Wrap(docerr.KindStorageUnavailable, "store.ListDocuments", "failed to decode document", err)
		}
		doc.ID = snap.Ref.ID
		doc.SentencesID = "" // metadata-only projection
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *FirestoreStore) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.client.Collection(s.pdfCollection).Doc(id).Delete(ctx); err != nil {
		return docerr.Wrap(docerr.KindStorageUnavailable, "store.DeleteDocument", fmt.Sprintf("failed to delete document %s", id), err)
	}
	return nil
}

func (s *FirestoreStore) InsertSentences(ctx context.Context, rec models.SentenceRecord) (string, error) {
	ref, _, err := s.client.Collection(s.sentenceCollection).Add(ctx, rec)
	if err != nil {
		return "", docerr.Wrap(docerr.KindStorageUnavailable, "store.InsertSentences", "failed to insert sentence record", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) GetSentences(ctx context.Context, id string) (models.SentenceRecord, error) {
	snap, err := s.client.Collection(s.sentenceCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.SentenceRecord{}, docerr.Newf(docerr.KindNotFound, "store.GetSentences", "no sentence record exists with id %s", id)
		}
		return models.SentenceRecord{}, docerr.Wrap(docerr.KindStorageUnavailable, "store.GetSentences", "failed to read sentence record", err)
	}
	var rec models.SentenceRecord
	if err := snap.DataTo(&rec); err != nil {
		return models.SentenceRecord{}, docerr.Wrap(docerr.KindStorageUnavailable, "store.GetSentences", "failed to decode sentence record", err)
	}
	rec.ID = snap.Ref.ID
	return rec, nil
}

func (s *FirestoreStore) DeleteSentences(ctx context.Context, id string) error {
	if _, err := s.client.Collection(s.sentenceCollection).Doc(id).Delete(ctx); err != nil {
		return docerr.Wrap(docerr.KindStorageUnavailable, "store.DeleteSentences", fmt.Sprintf("failed to delete sentence record %s", id), err)
	}
	return nil
}

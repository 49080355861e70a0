package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/docvault/docvault/internal/docerr"
)

// GCSBlobStore implements BlobStore on a single Cloud Storage bucket.
type GCSBlobStore struct {
	client *storage.Client
	bucket string
}

var _ BlobStore = (*GCSBlobStore)(nil)

func NewGCSBlobStore(client *storage.Client, bucket string) *GCSBlobStore {
	return &GCSBlobStore{client: client, bucket: bucket}
}

func (s *GCSBlobStore) Put(ctx context.Context, key string, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return docerr.Wrap(docerr.KindStorageUnavailable, "store.Put", fmt.Sprintf("failed to write object %s", key), err)
	}
	if err := w.Close(); err != nil {
		return docerr.Wrap(docerr.KindStorageUnavailable, "store.Put", fmt.Sprintf("failed to finalize object %s", key), err)
	}
	return nil
}

func (s *GCSBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, docerr.Newf(docerr.KindBlobMissing, "store.Get", "no blob stored under %s", key)
		}
		return nil, docerr.Wrap(docerr.KindStorageUnavailable, "store.Get", fmt.Sprintf("failed to open object %s", key), err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, docerr.Wrap(docerr.KindStorageUnavailable, "store.Get", fmt.Sprintf("failed to read object %s", key), err)
	}
	return data, nil
}

// Delete removes an object. Absence is not an error, so deletes stay
// idempotent even when an earlier best-effort upload never happened.
func (s *GCSBlobStore) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return docerr.Wrap(docerr.KindStorageUnavailable, "store.Delete", fmt.Sprintf("failed to delete object %s", key), err)
	}
	return nil
}

// Package gcp constructs the shared Firestore and Cloud Storage clients the
// stores are built on. Both are created once at startup and injected.
package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
)

// NewFirestoreClient creates the Firestore client backing the metadata
// store. Firestore has no cheap collection-existence probe, so beyond the
// project id the first read is the real validation.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return client, nil
}

// NewStorageClient creates the Cloud Storage client backing the blob store
// and verifies the bucket is reachable, so a misconfigured bucket fails at
// startup rather than on the first upload.
func NewStorageClient(ctx context.Context, bucket string) (*storage.Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket must be provided to create a storage client")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to stat bucket %s: %w", bucket, err)
	}
	return client, nil
}

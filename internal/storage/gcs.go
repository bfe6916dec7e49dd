package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
)

// GCS stores objects in a Google Cloud Storage bucket. Credentials come from
// the environment (ADC); STORAGE_EMULATOR_HOST is honoured by the client.
type GCS struct {
	client *gcs.Client
	bucket string
}

// NewGCS dials the storage API.
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	if bucket == "" {
		return nil, errors.New("storage: empty GCS bucket")
	}
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{client: c, bucket: bucket}, nil
}

// Put uploads r to key.
func (g *GCS) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	if err := validKey(key); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("write GCS object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close GCS writer: %w", err)
	}
	return nil
}

// Open returns a reader for key.
func (g *GCS) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	rc, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open GCS object %q: %w", key, err)
	}
	return rc, nil
}

// Delete removes key. Missing objects are not an error.
func (g *GCS) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete GCS object %q: %w", key, err)
	}
	return nil
}

// Close releases the client.
func (g *GCS) Close() error { return g.client.Close() }

// internal/adapters/out/gcs/object_store_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// ObjectStoreGCS writes objects to one bucket and returns their public URL.
// Used for product images and exported reports.
type ObjectStoreGCS struct {
	Client *storage.Client
	Bucket string
}

func NewObjectStoreGCS(client *storage.Client, bucket string) *ObjectStoreGCS {
	return &ObjectStoreGCS{Client: client, Bucket: strings.TrimSpace(bucket)}
}

func (s *ObjectStoreGCS) bucket() (*storage.BucketHandle, error) {
	if s == nil || s.Client == nil {
		return nil, errors.New("gcs: client is nil")
	}
	if s.Bucket == "" {
		return nil, errors.New("gcs: bucket is empty")
	}
	return s.Client.Bucket(s.Bucket), nil
}

// Put streams r into name, replacing any existing object.
func (s *ObjectStoreGCS) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	bh, err := s.bucket()
	if err != nil {
		return "", err
	}
	obj := sanitizeObjectPath(name)
	if obj == "" {
		return "", fmt.Errorf("gcs: invalid object name %q", name)
	}

	w := bh.Object(obj).NewWriter(ctx)
	if ct := strings.TrimSpace(contentType); ct != "" {
		w.ContentType = ct
	}
	w.Metadata = map[string]string{
		"uploadedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs: write %s: %w", obj, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs: close %s: %w", obj, err)
	}
	return publicURL(s.Bucket, obj), nil
}

// Delete ignores objects that are already gone.
func (s *ObjectStoreGCS) Delete(ctx context.Context, name string) error {
	bh, err := s.bucket()
	if err != nil {
		return err
	}
	obj := sanitizeObjectPath(name)
	if obj == "" {
		return nil
	}
	if err := bh.Object(obj).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kurin/blazer/b2"
)

type B2Config struct {
	KeyID  string
	AppKey string
}

// B2Bucket stores objects in Backblaze B2. Writing an existing name adds a
// new version, and reads always serve the latest one.
type B2Bucket struct {
	client *b2.Client
	bucket *b2.Bucket
}

func NewB2Bucket(ctx context.Context, bucketName string, cfg B2Config) (*B2Bucket, error) {
	client, err := b2.NewClient(ctx, cfg.KeyID, cfg.AppKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &B2Bucket{client: client, bucket: bucket}, nil
}

func (b *B2Bucket) Name() string { return b.bucket.Name() }

func (b *B2Bucket) Put(ctx context.Context, key string, body []byte, contentType string) error {
	w := b.bucket.Object(key).NewWriter(ctx).WithAttrs(&b2.Attrs{ContentType: contentType})

	if _, err := io.Copy(w, bytes.NewReader(body)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}

func (b *B2Bucket) PublicURL(key string) string {
	return b.bucket.Object(key).URL()
}

func (b *B2Bucket) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := b.bucket.Object(key).AuthURL(ctx, ttl, "")
	if err != nil {
		return "", fmt.Errorf("failed to authorize object url: %w", err)
	}
	return u.String(), nil
}

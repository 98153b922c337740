// Package storage puts photo bytes into an object store and resolves
// retrieval URLs for them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

// Bucket is an object store addressed by slash-separated keys.
type Bucket interface {
	Name() string
	// Put stores body under key, replacing any existing object.
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PublicURL(key string) string
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Config selects and configures one backend.
type Config struct {
	Driver string
	Bucket string
	S3     S3Config
	B2     B2Config
	Disk   DiskConfig
}

// Open builds the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Bucket, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Bucket(ctx, cfg.Bucket, cfg.S3)
	case "b2":
		return NewB2Bucket(ctx, cfg.Bucket, cfg.B2)
	case "disk", "":
		return NewDiskBucket(cfg.Bucket, cfg.Disk)
	case "memory":
		return NewMemoryBucket(cfg.Bucket, "memory://"+cfg.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// escapeKey escapes each path segment of key for use in a URL path.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + escapeKey(key)
}

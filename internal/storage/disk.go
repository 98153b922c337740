package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"permitwork/internal/pkg/jwt"
	"permitwork/internal/pkg/response"
)

type DiskConfig struct {
	Dir           string
	URLBase       string // path prefix or absolute URL the files are served under
	SigningSecret string
}

// DiskBucket keeps objects on the local filesystem. Meant for development
// and single-node installs.
type DiskBucket struct {
	name    string
	baseDir string
	urlBase string
	tokens  *jwt.Service
}

func NewDiskBucket(name string, cfg DiskConfig) (*DiskBucket, error) {
	baseDir := cfg.Dir
	if baseDir == "" {
		baseDir = "./uploads"
	}
	urlBase := cfg.URLBase
	if urlBase == "" {
		urlBase = "/files"
	}
	absDir, err := filepath.Abs(filepath.Join(baseDir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskBucket{
		name:    name,
		baseDir: absDir,
		urlBase: strings.TrimRight(urlBase, "/"),
		tokens:  jwt.New(cfg.SigningSecret),
	}, nil
}

func (b *DiskBucket) Name() string { return b.name }

// URLBase is the prefix files are served under.
func (b *DiskBucket) URLBase() string { return b.urlBase }

func (b *DiskBucket) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	absPath, err := b.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp := absPath + ".part"
	if err := os.WriteFile(tmp, body, 0644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (b *DiskBucket) PublicURL(key string) string {
	return joinURL(b.urlBase, key)
}

func (b *DiskBucket) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	token, err := b.tokens.GenerateObjectToken(key, ttl)
	if err != nil {
		return "", fmt.Errorf("failed to sign url: %w", err)
	}
	return b.PublicURL(key) + "?token=" + token, nil
}

// Handler serves stored files for GET {URLBase}/*key. When requireToken is
// set, a token issued by SignedURL for that exact key must be present.
func (b *DiskBucket) Handler(requireToken bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		absPath, err := b.resolve(key)
		if err != nil {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "file not found")
			return
		}
		if requireToken {
			if _, err := b.tokens.ValidateObjectToken(c.Query("token"), key); err != nil {
				response.Error(c, http.StatusForbidden, "FORBIDDEN", "missing or expired link")
				return
			}
		}
		if _, err := os.Stat(absPath); errors.Is(err, os.ErrNotExist) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "file not found")
			return
		}
		c.File(absPath)
	}
}

// resolve maps key to a path inside baseDir, refusing anything that escapes it.
func (b *DiskBucket) resolve(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	absPath := filepath.Join(b.baseDir, filepath.FromSlash(key))
	rel, err := filepath.Rel(b.baseDir, absPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return absPath, nil
}

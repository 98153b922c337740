package upload

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"permitwork/internal/storage"
)

const (
	DefaultMaxMB        = 10
	DefaultSignedURLTTL = time.Hour

	bytesPerMB = 1024 * 1024
	defaultExt = ".bin"
)

type Options struct {
	Public       bool          // resolve permanent public URLs instead of signed ones
	SignedURLTTL time.Duration // lifetime of signed URLs
	MaxMB        float64       // per-file limit when the caller passes none
}

// Service validates attachments, stores them under unique keys and resolves
// their URLs. Files are handled one at a time, in order.
type Service struct {
	bucket storage.Bucket
	repo   Repository
	opts   Options
	now    func() time.Time
	newID  func() string
}

func NewService(bucket storage.Bucket, repo Repository, opts Options) *Service {
	if opts.SignedURLTTL <= 0 {
		opts.SignedURLTTL = DefaultSignedURLTTL
	}
	if opts.MaxMB <= 0 {
		opts.MaxMB = DefaultMaxMB
	}
	return &Service{
		bucket: bucket,
		repo:   repo,
		opts:   opts,
		now:    time.Now,
		newID:  newObjectID,
	}
}

// UploadFiles stores every file under subfolder/YYYY/MM/DD/<id><ext> and
// returns one Photo per file. The first failing file aborts the batch;
// files stored before it are left in place.
func (s *Service) UploadFiles(ctx context.Context, files []File, subfolder string, maxMB float64) ([]*Photo, error) {
	photos := make([]*Photo, 0, len(files))
	if len(files) == 0 {
		return photos, nil
	}
	if maxMB <= 0 {
		maxMB = s.opts.MaxMB
	}

	datePrefix := s.now().UTC().Format("2006/01/02")

	for _, f := range files {
		raw, err := f.readAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}

		if float64(len(raw)) > maxMB*bytesPerMB {
			return nil, &FileTooLargeError{Filename: f.Name, Size: int64(len(raw)), MaxMB: maxMB}
		}

		mimeType := detectMimeType(f.ContentType, raw)
		if !strings.HasPrefix(mimeType, "image/") {
			return nil, &NotImageError{Filename: f.Name, MimeType: mimeType}
		}

		id := s.newID()
		uploadedAt := s.now().UTC()
		key := fmt.Sprintf("%s/%s/%s%s", subfolder, datePrefix, id, extension(f.Name))

		if err := s.bucket.Put(ctx, key, raw, mimeType); err != nil {
			return nil, fmt.Errorf("upload: put %s (%s): %w", key, f.Name, err)
		}

		url, err := s.resolveURL(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("url for %s: %w", f.Name, err)
		}

		log.Printf("photo_stored bucket=%s key=%s size=%d mime=%s", s.bucket.Name(), key, len(raw), mimeType)

		photos = append(photos, &Photo{
			ID:         id,
			FilePath:   key,
			Bucket:     s.bucket.Name(),
			Filename:   f.Name,
			MimeType:   mimeType,
			SizeBytes:  int64(len(raw)),
			URL:        url,
			UploadedAt: uploadedAt,
		})
	}
	return photos, nil
}

// SaveMetadata writes one metadata row per photo, tagged with link.
func (s *Service) SaveMetadata(ctx context.Context, photos []*Photo, link Link) error {
	if len(photos) == 0 {
		return nil
	}
	rows := make([]*Photo, 0, len(photos))
	for _, p := range photos {
		row := *p
		row.SourceTable = link.SourceTable
		row.WPRowID = link.RowID
		row.Category = link.Category
		rows = append(rows, &row)
	}
	return s.repo.CreateBatch(ctx, rows)
}

// ListPhotos returns the metadata rows linked to one record.
func (s *Service) ListPhotos(ctx context.Context, sourceTable string, rowID int64) ([]*Photo, error) {
	return s.repo.ListByRow(ctx, sourceTable, rowID)
}

func (s *Service) resolveURL(ctx context.Context, key string) (string, error) {
	if s.opts.Public {
		return s.bucket.PublicURL(key), nil
	}
	return s.bucket.SignedURL(ctx, key, s.opts.SignedURLTTL)
}

// detectMimeType trusts the declared type and sniffs only when none was sent.
func detectMimeType(declared string, raw []byte) string {
	mimeType := strings.ToLower(strings.TrimSpace(declared))
	if mimeType == "" {
		mimeType = mimetype.Detect(raw).String()
	}
	return strings.TrimSpace(strings.Split(mimeType, ";")[0])
}

func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if ext == "" || ext == "." {
		return defaultExt
	}
	return ext
}

func newObjectID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

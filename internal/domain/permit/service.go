package permit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"permitwork/internal/domain/upload"
	"permitwork/internal/pkg/validator"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200

	metadataWarning = "Saved images, but could not write photo metadata: "
)

// Uploader is the part of the upload service a submission needs.
type Uploader interface {
	UploadFiles(ctx context.Context, files []upload.File, subfolder string, maxMB float64) ([]*upload.Photo, error)
	SaveMetadata(ctx context.Context, photos []*upload.Photo, link upload.Link) error
	ListPhotos(ctx context.Context, sourceTable string, rowID int64) ([]*upload.Photo, error)
}

type Options struct {
	RequireSafetyConfirmation bool
	MaxUploadMB               float64  // per-file limit, 0 means the upload default
	CSCOptions                []string // when set, csc must be one of these
}

type Service struct {
	repo    Repository
	uploads Uploader
	opts    Options
}

func NewService(repo Repository, uploads Uploader, opts Options) *Service {
	return &Service{repo: repo, uploads: uploads, opts: opts}
}

func (s *Service) Options() Options { return s.opts }

// Submit validates the request, uploads the operated LBS photos and then
// the earthing point photos, inserts the permit row and finally records
// photo metadata. Only the metadata step is allowed to fail softly; its
// error becomes a warning on the result.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest, att Attachments) (*Result, error) {
	req.Normalize()
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	operated, err := s.uploads.UploadFiles(ctx, att.OperatedLbs, CategoryOperatedLbs, s.opts.MaxUploadMB)
	if err != nil {
		return nil, uploadError(err)
	}
	earthing, err := s.uploads.UploadFiles(ctx, att.EarthingPoints, CategoryEarthingPoints, s.opts.MaxUploadMB)
	if err != nil {
		return nil, uploadError(err)
	}

	p := req.toPermit(photoURLs(operated), photoURLs(earthing))
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInsertFailed, err)
	}
	log.Printf("permit_created table=%s id=%d csc=%q operated_photos=%d earthing_photos=%d",
		s.repo.Table(), p.ID, p.CSC, len(operated), len(earthing))

	result := &Result{
		Permit:               p,
		OperatedLbsPhotos:    operated,
		EarthingPointsPhotos: earthing,
	}

	rowID := p.ID
	for _, batch := range []struct {
		category string
		photos   []*upload.Photo
	}{
		{CategoryOperatedLbs, operated},
		{CategoryEarthingPoints, earthing},
	} {
		link := upload.Link{SourceTable: s.repo.Table(), RowID: &rowID, Category: batch.category}
		if err := s.uploads.SaveMetadata(ctx, batch.photos, link); err != nil {
			log.Printf("photo_metadata_failed table=%s id=%d category=%s error=%q",
				s.repo.Table(), p.ID, batch.category, err.Error())
			result.Warnings = append(result.Warnings, metadataWarning+err.Error())
		}
	}

	return result, nil
}

// Validate checks everything that can be checked without storage or the
// database. All blank required fields are reported together.
func (s *Service) Validate(req *SubmitRequest) error {
	verr := &ValidationError{}
	for _, fe := range validator.Check(req) {
		switch fe.Tag {
		case "required":
			verr.Missing = append(verr.Missing, fe.Field)
		case "min", "max":
			verr.Problems = append(verr.Problems, fmt.Sprintf("%s must be between 0 and 120", fe.Field))
		default:
			verr.Problems = append(verr.Problems, fmt.Sprintf("%s is invalid", fe.Field))
		}
	}
	if len(s.opts.CSCOptions) > 0 && req.CSC != "" && !slices.Contains(s.opts.CSCOptions, req.CSC) {
		verr.Problems = append(verr.Problems, fmt.Sprintf("Customer Service Center %q is not a known center", req.CSC))
	}
	if s.opts.RequireSafetyConfirmation && !req.SafetyConfirmation {
		verr.Problems = append(verr.Problems, "Please confirm that all safety steps were carried out")
	}
	if verr.empty() {
		return nil
	}
	return verr
}

// Get returns a permit with the photo metadata linked to it.
func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	photos, err := s.uploads.ListPhotos(ctx, s.repo.Table(), id)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	if photos == nil {
		photos = []*upload.Photo{}
	}
	return &Detail{Permit: p, Photos: photos}, nil
}

// List returns recent permits, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Permit, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	permits, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if permits == nil {
		permits = []*Permit{}
	}
	return permits, nil
}

// uploadError passes rejected files through untouched and marks everything
// else as a storage failure.
func uploadError(err error) error {
	if errors.Is(err, upload.ErrFileTooLarge) || errors.Is(err, upload.ErrInvalidMimeType) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUploadFailed, err)
}

package upload

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed")
)

// FileTooLargeError names the file and its measured size.
type FileTooLargeError struct {
	Filename string
	Size     int64
	MaxMB    float64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("File '%s' is %.1f MB; max allowed is %s MB",
		e.Filename, float64(e.Size)/bytesPerMB, strconv.FormatFloat(e.MaxMB, 'f', -1, 64))
}

func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// NotImageError is returned for any content type outside image/*.
type NotImageError struct {
	Filename string
	MimeType string
}

func (e *NotImageError) Error() string {
	return fmt.Sprintf("File '%s' is not an image (MIME=%s)", e.Filename, e.MimeType)
}

func (e *NotImageError) Unwrap() error { return ErrInvalidMimeType }

package permit

import (
	"errors"
	"strings"
)

var (
	ErrPermitNotFound = errors.New("permit not found")
	ErrUploadFailed   = errors.New("photo upload failed")
	ErrInsertFailed   = errors.New("insert permit")
	ErrTableMissing   = errors.New("table does not exist")
)

// ValidationError lists every problem found before anything was stored.
// Missing holds the labels of blank required fields, in form order.
type ValidationError struct {
	Missing  []string `json:"missing,omitempty"`
	Problems []string `json:"problems,omitempty"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, 1+len(e.Problems))
	if len(e.Missing) > 0 {
		parts = append(parts, "Please fill: "+strings.Join(e.Missing, ", "))
	}
	parts = append(parts, e.Problems...)
	return strings.Join(parts, "; ")
}

func (e *ValidationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Problems) == 0
}

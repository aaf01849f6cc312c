package asset

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrAssetNotFound signals that no catalog row exists for the id.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrUnsupportedMedia indicates a missing or unsupported file extension.
	ErrUnsupportedMedia = errors.New("unsupported media type")
	// ErrFileTooLarge signals that the upload exceeds configured limits.
	ErrFileTooLarge = errors.New("file too large")
	// ErrObjectNotFound signals a missing object in a byte namespace.
	ErrObjectNotFound = errors.New("object not found")
)

// DuplicateError reports that uploaded content is already cataloged. It
// carries the existing asset id so callers can redirect instead of failing.
type DuplicateError struct {
	ExistingID uuid.UUID
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("content already stored as asset %s", e.ExistingID)
}

package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidKind          = errors.New("invalid media kind")
	ErrInvalidType          = errors.New("invalid file type")
	ErrTooLarge             = errors.New("file too large")
	ErrNotFound             = errors.New("media item not found")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrNotConfirmed         = errors.New("deletion not confirmed")
	ErrUploadInProgress     = errors.New("upload still in progress")
	ErrUploadFailed         = errors.New("upload failed")
	ErrThumbnailUnsupported = errors.New("thumbnail not supported for this media kind")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrInvalidDirection     = errors.New("invalid direction")
	ErrDraftNotFound        = errors.New("draft not found")
	ErrProjectMismatch      = errors.New("project does not match the draft")
)

// UploadError is returned when a file could not be stored or its URL could not be minted
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %q failed: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrUploadFailed) match any UploadError
func (e *UploadError) Is(target error) bool {
	return target == ErrUploadFailed
}

// PersistenceError wraps a catalog backend failure
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("catalog %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

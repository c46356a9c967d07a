package service

import (
	"errors"
	"fmt"

	"github.com/tnqbao/gau-gallery-service/infra"
)

var (
	ErrNoFilesProvided      = errors.New("no files provided")
	ErrTooManyFiles         = errors.New("too many files")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file too large")
	ErrPartialInsert        = errors.New("partial insert")
	ErrUploadFailed         = errors.New("upload failed")
	ErrNotFound             = errors.New("image not found")
	ErrReconciliationFailed = errors.New("reconciliation failed")
	ErrNothingToDownload    = errors.New("nothing to download")
	ErrStoreUnavailable     = infra.ErrStoreUnavailable
)

// PartialInsertError reports a metadata batch where fewer records were stored
// than submitted. Blobs and records already written are left in place.
type PartialInsertError struct {
	Inserted  int
	Submitted int
	Err       error
}

func (e *PartialInsertError) Error() string {
	msg := fmt.Sprintf("partial insert: %d of %d records stored", e.Inserted, e.Submitted)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PartialInsertError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPartialInsert}
	}
	return []error{ErrPartialInsert, e.Err}
}

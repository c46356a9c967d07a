package infra

import "errors"

var (
	ErrBlobNotFound     = errors.New("blob not found")
	ErrInvalidBlobName  = errors.New("invalid blob name")
	ErrStoreUnavailable = errors.New("store unavailable")
)

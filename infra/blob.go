package infra

import (
	"context"
	"io"
	"strings"

	"github.com/tnqbao/gau-gallery-service/entity"
)

// BlobStorage is a flat namespace of uploaded image bytes.
type BlobStorage interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (*entity.BlobInfo, error)
	List(ctx context.Context) ([]string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
}

func validBlobName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}

type unavailableBlobStorage struct{}

func (unavailableBlobStorage) Save(context.Context, string, io.Reader, int64, string) (*entity.BlobInfo, error) {
	return nil, ErrStoreUnavailable
}

func (unavailableBlobStorage) List(context.Context) ([]string, error) {
	return nil, ErrStoreUnavailable
}

func (unavailableBlobStorage) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, ErrStoreUnavailable
}

func (unavailableBlobStorage) Remove(context.Context, string) error {
	return ErrStoreUnavailable
}

package repository

import (
	"context"

	"github.com/tnqbao/gau-gallery-service/entity"
	"github.com/tnqbao/gau-gallery-service/infra"
)

// UnavailableRepository stands in for a metadata store that could not be
// reached at startup.
type UnavailableRepository struct{}

func (UnavailableRepository) CreateMany(context.Context, []*entity.UploadedFile) (int, error) {
	return 0, infra.ErrStoreUnavailable
}

func (UnavailableRepository) FindByID(context.Context, string) (*entity.UploadedFile, error) {
	return nil, infra.ErrStoreUnavailable
}

func (UnavailableRepository) Delete(context.Context, string) error {
	return infra.ErrStoreUnavailable
}

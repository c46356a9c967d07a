package repository

import (
	"context"
	"errors"

	"github.com/tnqbao/gau-gallery-service/config"
	"github.com/tnqbao/gau-gallery-service/entity"
	"github.com/tnqbao/gau-gallery-service/infra"
)

var ErrRecordNotFound = errors.New("record not found")

// UploadedFileRepository persists image metadata. Malformed ids are reported as
// ErrRecordNotFound rather than as a validation error.
type UploadedFileRepository interface {
	CreateMany(ctx context.Context, files []*entity.UploadedFile) (int, error)
	FindByID(ctx context.Context, id string) (*entity.UploadedFile, error)
	Delete(ctx context.Context, id string) error
}

type Repository struct {
	UploadedFileRepo UploadedFileRepository
}

func InitRepository(cfg *config.Config, in *infra.Infra) *Repository {
	return &Repository{
		UploadedFileRepo: newUploadedFileRepository(cfg.EnvConfig, in),
	}
}

func newUploadedFileRepository(cfg *config.EnvConfig, in *infra.Infra) UploadedFileRepository {
	switch cfg.Storage.MetadataBackend {
	case config.MetadataBackendPostgres:
		if in.Postgres == nil {
			return UnavailableRepository{}
		}
		return NewGormUploadedFileRepository(in.Postgres.DB)
	default:
		if in.Mongo == nil {
			return UnavailableRepository{}
		}
		return NewMongoUploadedFileRepository(in.Mongo.Database.Collection(cfg.Mongo.Collection))
	}
}

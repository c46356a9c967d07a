package service

import (
	"github.com/tnqbao/gau-gallery-service/config"
	"github.com/tnqbao/gau-gallery-service/infra"
	"github.com/tnqbao/gau-gallery-service/repository"
)

// InitService wires the gallery service to the stores held by infra.
func InitService(cfg *config.Config, in *infra.Infra, repo *repository.Repository) *Service {
	env := cfg.EnvConfig
	opts := []Option{WithMetrics(in.Metrics)}
	if in.Produce != nil && in.Produce.ImageService != nil {
		opts = append(opts, WithEventPublisher(in.Produce.ImageService))
	}

	return NewService(in.Blobs, repo.UploadedFileRepo, in.Redis, in.Logger, Settings{
		URLPrefix:   env.Upload.URLPrefix,
		MaxFiles:    env.Upload.MaxFiles,
		MaxFileSize: env.Upload.MaxFileSize,
	}, opts...)
}

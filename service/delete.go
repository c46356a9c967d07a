package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tnqbao/gau-gallery-service/entity"
	"github.com/tnqbao/gau-gallery-service/infra"
	"github.com/tnqbao/gau-gallery-service/repository"
)

// Delete removes the blob, the metadata record and every cache entry for id.
// The three stores are not updated atomically. Each step tolerates its target
// already being gone, so retrying a failed delete converges.
func (s *Service) Delete(ctx context.Context, id string) (*entity.UploadedFile, error) {
	file, err := s.files.FindByID(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("look up image %s: %w", id, err)
	}

	if err := s.blobs.Remove(ctx, file.FileName); err != nil && !errors.Is(err, infra.ErrBlobNotFound) {
		return nil, fmt.Errorf("remove blob %s: %w", file.FileName, err)
	}
	if err := s.files.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("delete record %s: %w", id, err)
	}
	if _, err := s.cache.RemovePath(ctx, file.FilePath); err != nil {
		return nil, fmt.Errorf("remove %s from path cache: %w", file.FilePath, err)
	}

	s.metrics.RecordDeleted(ctx)
	if err := s.events.PublishImageDeleted(ctx, file.ID, file.FilePath); err != nil {
		s.logger.WarningWithContextf(ctx, "[Delete] Failed to publish delete event: %v", err)
	}
	return file, nil
}

package service

import (
	"context"
	"time"

	"github.com/tnqbao/gau-gallery-service/infra"
	"github.com/tnqbao/gau-gallery-service/repository"
)

// PathCache is the ordered list of known upload paths.
type PathCache interface {
	ListPaths(ctx context.Context) ([]string, error)
	AppendPath(ctx context.Context, path string) error
	RemovePath(ctx context.Context, path string) (int64, error)
}

type EventPublisher interface {
	PublishImagesUploaded(ctx context.Context, paths []string) error
	PublishImageDeleted(ctx context.Context, id, path string) error
	PublishCacheSwept(ctx context.Context, pruned int) error
}

type Settings struct {
	URLPrefix   string
	MaxFiles    int
	MaxFileSize int64
}

type Service struct {
	blobs    infra.BlobStorage
	files    repository.UploadedFileRepository
	cache    PathCache
	events   EventPublisher
	logger   *infra.LoggerClient
	metrics  *infra.Metrics
	settings Settings
	now      func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithEventPublisher(events EventPublisher) Option {
	return func(s *Service) {
		if events != nil {
			s.events = events
		}
	}
}

func WithMetrics(metrics *infra.Metrics) Option {
	return func(s *Service) { s.metrics = metrics }
}

func NewService(
	blobs infra.BlobStorage,
	files repository.UploadedFileRepository,
	cache PathCache,
	logger *infra.LoggerClient,
	settings Settings,
	opts ...Option,
) *Service {
	if settings.URLPrefix == "" {
		settings.URLPrefix = "/uploads"
	}
	s := &Service{
		blobs:    blobs,
		files:    files,
		cache:    cache,
		events:   noopPublisher{},
		logger:   logger,
		settings: settings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Settings() Settings {
	return s.settings
}

type noopPublisher struct{}

func (noopPublisher) PublishImagesUploaded(context.Context, []string) error { return nil }

func (noopPublisher) PublishImageDeleted(context.Context, string, string) error { return nil }

func (noopPublisher) PublishCacheSwept(context.Context, int) error { return nil }

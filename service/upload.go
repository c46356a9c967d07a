package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tnqbao/gau-gallery-service/entity"
)

// sniffLen matches mimetype's default read limit.
const sniffLen = 3072

// UploadInput is one multipart part, validated before any bytes are stored.
type UploadInput struct {
	OriginalName string
	Size         int64
	ContentType  string
	Open         func() (io.ReadCloser, error)
}

type UploadResult struct {
	Files     []string
	AllImages []string
}

// Upload stores every input as a blob, records their metadata in one batch,
// appends the new paths to the path cache and returns the reconciled list.
func (s *Service) Upload(ctx context.Context, inputs []UploadInput) (*UploadResult, error) {
	if err := s.validateUpload(inputs); err != nil {
		return nil, err
	}

	records := make([]*entity.UploadedFile, 0, len(inputs))
	for _, in := range inputs {
		record, err := s.storeBlob(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
		}
		records = append(records, record)
	}

	inserted, err := s.files.CreateMany(ctx, records)
	if inserted != len(records) && (err == nil || inserted > 0) {
		return nil, &PartialInsertError{Inserted: inserted, Submitted: len(records), Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: insert metadata: %w", ErrUploadFailed, err)
	}
	s.metrics.RecordUploaded(ctx, len(records))

	paths := make([]string, len(records))
	for i, record := range records {
		if err := s.cache.AppendPath(ctx, record.FilePath); err != nil {
			return nil, fmt.Errorf("%w: append %s to path cache: %w", ErrUploadFailed, record.FilePath, err)
		}
		paths[i] = record.FilePath
	}

	all, err := s.Reconcile(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.events.PublishImagesUploaded(ctx, paths); err != nil {
		s.logger.WarningWithContextf(ctx, "[Upload] Failed to publish upload event: %v", err)
	}

	return &UploadResult{Files: paths, AllImages: all}, nil
}

func (s *Service) validateUpload(inputs []UploadInput) error {
	if len(inputs) == 0 {
		return ErrNoFilesProvided
	}
	if s.settings.MaxFiles > 0 && len(inputs) > s.settings.MaxFiles {
		return fmt.Errorf("%w: %d files, at most %d allowed", ErrTooManyFiles, len(inputs), s.settings.MaxFiles)
	}
	for _, in := range inputs {
		if !IsSupportedImage(in.OriginalName) {
			return fmt.Errorf("%w: %s", ErrUnsupportedFileType, in.OriginalName)
		}
		if s.settings.MaxFileSize > 0 && in.Size > s.settings.MaxFileSize {
			return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, in.OriginalName, in.Size, s.settings.MaxFileSize)
		}
	}
	return nil
}

func (s *Service) storeBlob(ctx context.Context, in UploadInput) (*entity.UploadedFile, error) {
	if in.Open == nil {
		return nil, errors.New("upload input has no content")
	}
	src, err := in.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", in.OriginalName, err)
	}
	defer src.Close()

	contentType := in.ContentType
	var reader io.Reader = src
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := make([]byte, sniffLen)
		n, err := io.ReadFull(src, sniff)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read %s: %w", in.OriginalName, err)
		}
		contentType = mimetype.Detect(sniff[:n]).String()
		reader = io.MultiReader(bytes.NewReader(sniff[:n]), src)
	}

	now := s.now()
	name := BlobName(now, in.OriginalName)
	info, err := s.blobs.Save(ctx, name, reader, in.Size, contentType)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", name, err)
	}

	return &entity.UploadedFile{
		FileName:         name,
		OriginalName:     in.OriginalName,
		UploadTime:       now,
		FileCreationTime: info.CreatedAt,
		FilePath:         s.PublicPath(name),
		Size:             info.Size,
		ContentType:      contentType,
	}, nil
}

package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tnqbao/gau-gallery-service/entity"
)

// LocalBlobStore keeps blobs as plain files in a single directory, which is
// also mounted as the static upload route.
type LocalBlobStore struct {
	root string
}

func NewLocalBlobStore(root string) (*LocalBlobStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalBlobStore{root: abs}, nil
}

func (s *LocalBlobStore) Root() string {
	return s.root
}

func (s *LocalBlobStore) path(name string) (string, error) {
	if !validBlobName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidBlobName, name)
	}
	return filepath.Join(s.root, name), nil
}

func (s *LocalBlobStore) Save(ctx context.Context, name string, r io.Reader, _ int64, _ string) (*entity.BlobInfo, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close blob %s: %w", name, err)
	}

	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("failed to stat blob %s: %w", name, err)
	}
	// Blobs are never rewritten, so mtime stands in for birth time.
	return &entity.BlobInfo{Name: name, Size: info.Size(), CreatedAt: info.ModTime()}, nil
}

// List returns regular file names in directory order.
func (s *LocalBlobStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (s *LocalBlobStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, name)
	}
	return f, err
}

func (s *LocalBlobStore) Remove(_ context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrBlobNotFound, name)
	}
	return err
}

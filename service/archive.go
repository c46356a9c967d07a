package service

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// ArchivePaths reconciles and returns the paths a bulk download would contain.
func (s *Service) ArchivePaths(ctx context.Context) ([]string, error) {
	paths, err := s.Reconcile(ctx)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNothingToDownload
	}
	return paths, nil
}

// WriteArchive streams a zip of the given paths to w at maximum compression.
// Entries are named by base file name. Nothing is buffered beyond the
// compressor window, so a failure leaves w holding a truncated archive.
func (s *Service) WriteArchive(ctx context.Context, w io.Writer, paths []string) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.addToArchive(ctx, zw, path.Base(p)); err != nil {
			return err
		}
	}
	return zw.Close()
}

func (s *Service) addToArchive(ctx context.Context, zw *zip.Writer, name string) error {
	src, err := s.blobs.Open(ctx, name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer src.Close()

	header := &zip.FileHeader{Name: name, Method: zip.Deflate}
	header.Modified = s.now()
	dst, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}

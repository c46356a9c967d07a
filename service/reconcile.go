package service

import (
	"context"
	"fmt"
	"time"
)

// Reconcile returns the public paths of every supported image in the blob
// store, in listing order, and removes path cache entries that no blob backs.
func (s *Service) Reconcile(ctx context.Context) ([]string, error) {
	valid, _, err := s.reconcile(ctx)
	return valid, err
}

func (s *Service) reconcile(ctx context.Context) ([]string, int, error) {
	start := time.Now()

	cached, err := s.cache.ListPaths(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read path cache: %w", ErrReconciliationFailed, err)
	}
	names, err := s.blobs.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list blobs: %w", ErrReconciliationFailed, err)
	}

	valid := make([]string, 0, len(names))
	known := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !IsSupportedImage(name) {
			continue
		}
		p := s.PublicPath(name)
		valid = append(valid, p)
		known[p] = struct{}{}
	}

	pruned := 0
	seen := make(map[string]struct{})
	for _, p := range cached {
		if _, ok := known[p]; ok {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}

		n, err := s.cache.RemovePath(ctx, p)
		if err != nil {
			return nil, pruned, fmt.Errorf("%w: prune %s: %w", ErrReconciliationFailed, p, err)
		}
		pruned += int(n)
	}

	s.metrics.RecordReconcile(ctx, pruned, time.Since(start))
	if pruned > 0 {
		s.logger.DebugWithContextf(ctx, "[Reconcile] Pruned %d stale cache entries", pruned)
	}
	return valid, pruned, nil
}

package service

import "context"

type SweepResult struct {
	Valid  int
	Pruned int
}

// Sweep runs a reconciliation pass for its cache pruning side effect.
func (s *Service) Sweep(ctx context.Context) (SweepResult, error) {
	valid, pruned, err := s.reconcile(ctx)
	if err != nil {
		return SweepResult{Pruned: pruned}, err
	}

	if pruned > 0 {
		if err := s.events.PublishCacheSwept(ctx, pruned); err != nil {
			s.logger.WarningWithContextf(ctx, "[Sweep] Failed to publish sweep event: %v", err)
		}
	}
	return SweepResult{Valid: len(valid), Pruned: pruned}, nil
}

package worker

import (
	"context"
	"sync"
	"time"

	"github.com/tnqbao/gau-gallery-service/infra"
	"github.com/tnqbao/gau-gallery-service/service"
)

type CacheSweeper interface {
	Sweep(ctx context.Context) (service.SweepResult, error)
}

// Sweeper periodically reconciles the path cache against the blob store.
// Failed passes are logged and the next tick runs as usual.
type Sweeper struct {
	target   CacheSweeper
	logger   *infra.LoggerClient
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(target CacheSweeper, logger *infra.LoggerClient, interval time.Duration) *Sweeper {
	return &Sweeper{
		target:   target,
		logger:   logger,
		interval: interval,
	}
}

// Start launches the sweep loop. It stops when ctx is cancelled or Stop is called.
// Calling Start on a running sweeper is a no-op.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.logger.InfoWithContextf(ctx, "[Sweeper] Started with interval %s", s.interval)
	go s.run(ctx, s.done)
}

// Stop cancels the loop and waits for an in-flight pass to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Sweeper) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoWithContextf(context.WithoutCancel(ctx), "[Sweeper] Shutting down...")
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	result, err := s.target.Sweep(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.ErrorWithContextf(ctx, err, "[Sweeper] Reconciliation failed")
		return
	}
	s.logger.InfoWithContextf(ctx, "[Sweeper] %d valid images, %d stale cache entries pruned", result.Valid, result.Pruned)
}

package server

import (
	"context"
	"time"
)

// ShutdownCoordinator owns the base context of every request. Cancelling it
// lets in-flight outbound calls (echo replies) stop before the listener closes.
type ShutdownCoordinator struct {
	baseCtx     context.Context
	cancel      context.CancelFunc
	gracePeriod time.Duration
}

func NewShutdownCoordinator(gracePeriod time.Duration) *ShutdownCoordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &ShutdownCoordinator{
		baseCtx:     ctx,
		cancel:      cancel,
		gracePeriod: gracePeriod,
	}
}

func (sc *ShutdownCoordinator) BaseContext() context.Context {
	return sc.baseCtx
}

// InitiateShutdown cancels the base context, then blocks for the grace period
// or until ctx is done.
func (sc *ShutdownCoordinator) InitiateShutdown(ctx context.Context) {
	sc.cancel()

	timer := time.NewTimer(sc.gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Runner owns the lifecycle of the background session workers. Both
// workers start together, share one cancellation signal, and Stop joins
// them before returning.
type Runner struct {
	sweeper    *IdleSweeper
	reconciler *ExpiryReconciler

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a new Runner instance.
func NewRunner(sweeper *IdleSweeper, reconciler *ExpiryReconciler) *Runner {
	return &Runner{
		sweeper:    sweeper,
		reconciler: reconciler,
	}
}

// Start launches both workers. They run until Stop is called or ctx is
// cancelled, whichever comes first.
func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(2)
	go func() {
		defer r.wg.Done()
		r.sweeper.Run(ctx)
	}()
	go func() {
		defer r.wg.Done()
		r.reconciler.Run(ctx)
	}()
	slog.Info("session workers started")
}

// Stop signals both workers and waits for them to finish. Safe to call
// when Start was never called, and safe to call more than once.
func (r *Runner) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	r.wg.Wait()
	slog.Info("session workers stopped")
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// Loader reloads the in-memory bookmark list from the store.
type Loader interface {
	LoadBookmarks(ctx context.Context) error
}

// Reloader converges the manager with the store periodically and on demand
type Reloader struct {
	loader        Loader
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewReloader creates a new reloader. manualTrigger should be buffered with
// capacity 1 so a pending request absorbs further ones.
func NewReloader(
	loader Loader,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *Reloader {
	return &Reloader{
		loader:        loader,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads once, then keeps reloading until Stop or ctx is done
func (r *Reloader) Start(ctx context.Context) error {
	if err := r.loader.LoadBookmarks(ctx); err != nil {
		return fmt.Errorf("initial bookmark load failed: %w", err)
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.reload(ctx)
			case <-r.manualTrigger:
				r.logger.Info("manual bookmark reload triggered")
				r.reload(ctx)
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (r *Reloader) Stop() {
	close(r.stopCh)
}

func (r *Reloader) reload(ctx context.Context) {
	start := time.Now()
	if err := r.loader.LoadBookmarks(ctx); err != nil {
		r.logger.Error("failed to reload bookmarks", logger.Error(err))
		return
	}
	r.logger.Debug("bookmarks reloaded", logger.Duration("took", time.Since(start)))
}

// Trigger requests a reload without blocking. It reports false when a
// request is already pending.
func Trigger(ch chan<- struct{}) bool {
	select {
	case ch <- struct{}{}:
		return true
	default:
		return false
	}
}

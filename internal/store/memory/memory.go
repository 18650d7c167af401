// Package memory is an in-process store backend.
package memory

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/shelf/internal/store"
)

// Backend keeps the last saved snapshot in memory.
type Backend struct {
	mu       sync.Mutex
	snapshot store.Snapshot
}

var _ store.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string { return "memory" }

func (b *Backend) Load(context.Context) (*store.Records, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return store.FromSnapshot(b.snapshot), nil
}

func (b *Backend) Save(_ context.Context, r *store.Records) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshot = r.Snapshot()
	return nil
}

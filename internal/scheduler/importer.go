package scheduler

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/sources"
)

// Counter reports how many entities the store holds.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Importer imports into the manager.
type Importer interface {
	ImportBookmarks(ctx context.Context, t domain.ImportTree) (domain.ImportResult, error)
}

// SeedImporter fills an empty store from an import file at startup
type SeedImporter struct {
	counter  Counter
	importer Importer
	logger   logger.Logger
	file     string
	format   string
}

// NewSeedImporter creates a new startup importer
func NewSeedImporter(counter Counter, importer Importer, log logger.Logger, file, format string) *SeedImporter {
	return &SeedImporter{
		counter:  counter,
		importer: importer,
		logger:   log,
		file:     file,
		format:   format,
	}
}

// Run imports the configured file once. It does nothing when no file is
// configured or the store already holds entities.
func (si *SeedImporter) Run(ctx context.Context) (domain.ImportResult, error) {
	if si.file == "" {
		return domain.ImportResult{}, nil
	}

	n, err := si.counter.Count(ctx)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("failed to count stored entities: %w", err)
	}
	if n > 0 {
		si.logger.Info("store not empty, skipping startup import",
			logger.Int("entities", n),
			logger.String("file", si.file))
		return domain.ImportResult{}, nil
	}

	tree, err := sources.ParseFile(si.format, si.file)
	if err != nil {
		return domain.ImportResult{}, err
	}

	si.logger.Info("importing bookmarks into empty store",
		logger.String("file", si.file),
		logger.String("format", si.format),
		logger.Int("bookmarks", tree.BookmarkCount()))

	return si.importer.ImportBookmarks(ctx, tree)
}

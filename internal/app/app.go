package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/shelf/internal/config"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/views"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/manager"
	"github.com/MrSnakeDoc/shelf/internal/redis"
	"github.com/MrSnakeDoc/shelf/internal/scheduler"
	"github.com/MrSnakeDoc/shelf/internal/sources"
	"github.com/MrSnakeDoc/shelf/internal/store"
	badgerstore "github.com/MrSnakeDoc/shelf/internal/store/badger"
	"github.com/MrSnakeDoc/shelf/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/shelf/internal/store/redis"
	"github.com/MrSnakeDoc/shelf/internal/utils"
	"github.com/MrSnakeDoc/shelf/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	backend     store.Backend
	closer      io.Closer // nil for the memory backend
	redisClient *goredis.Client
	manager     *manager.Manager
	seeder      *scheduler.SeedImporter
	reloader    *scheduler.Reloader
}

// New loads the configuration, opens the configured store and wires the
// manager, schedulers and HTTP server. Nothing is started until Run.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	a := &App{cfg: cfg, logger: loggerClient}
	if err := a.openBackend(ctx); err != nil {
		return nil, err
	}

	persistent := store.NewPersistent(a.backend, loggerClient)
	a.manager = manager.New(persistent, loggerClient)

	a.seeder = scheduler.NewSeedImporter(persistent, a.manager, loggerClient, cfg.ImportFile, cfg.ImportFormat)

	// Buffered so one pending manual reload absorbs the rest
	reloadTrigger := make(chan struct{}, 1)
	a.reloader = scheduler.NewReloader(a.manager, loggerClient, cfg.ReloadInterval, reloadTrigger)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Manager:       a.manager,
		Views:         views.New(a.manager, cfg.SortLocale),
		StoreName:     a.backend.Name(),
		RedisClient:   a.redisClient,
		SearchLimit:   cfg.SearchLimit,
		ReloadTrigger: reloadTrigger,
	}

	a.server = httpserver.New(cfg, loggerClient, d)
	return a, nil
}

// openBackend fails fast when the configured store is unreachable.
func (a *App) openBackend(ctx context.Context) error {
	switch a.cfg.Store {
	case config.StoreMemory:
		a.logger.Warn("using in-memory store, bookmarks are lost on exit")
		a.backend = memory.New()

	case config.StoreBadger:
		a.logger.Info("opening badger store", logger.String("dir", a.cfg.BadgerDir))
		db, err := badgerstore.Open(a.cfg.BadgerDir)
		if err != nil {
			return fmt.Errorf("failed to open badger store: %w", err)
		}
		a.backend, a.closer = db, db

	default:
		a.logger.Infof("Connecting to Redis at %s", a.cfg.RedisAddr)
		client, err := redis.New(ctx, redis.OptionsFromConfig(a.cfg), a.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.logger.Info("Redis initialized successfully")
		a.backend, a.closer, a.redisClient = redisstore.NewStore(client), client, client
	}
	return nil
}

// Run seeds the store if needed, starts the reloader and serves HTTP until
// SIGINT/SIGTERM or a server error.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.logger.Infof("🚀 Starting Shelf v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Shelf %s (commit=%s, built=%s, go=%s, store=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion, a.backend.Name())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if res, err := a.seeder.Run(ctx); err != nil {
		a.logger.Warn("startup import failed, serving the store as is",
			logger.String("file", a.cfg.ImportFile),
			logger.Error(err))
	} else if res.Successful > 0 {
		a.logger.Info("startup import done", logger.String("result", res.String()))
	}

	// Initial load happens here; without it there is nothing to serve
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reloader: %w", err)
	}
	a.logger.Info("bookmark reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.reloader.Stop()
		return err
	}

	a.reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ Shelf stopped cleanly")
	return nil
}

// Import parses path as format and imports it into the configured store.
func (a *App) Import(ctx context.Context, format, path string) (domain.ImportResult, error) {
	if !sources.IsSupported(format) {
		return domain.ImportResult{}, fmt.Errorf("unsupported import format %q (want one of %v)", format, sources.Formats())
	}

	tree, err := sources.ParseFile(format, path)
	if err != nil {
		return domain.ImportResult{}, err
	}

	a.logger.Info("importing bookmarks",
		logger.String("file", path),
		logger.String("format", format),
		logger.Int("bookmarks", tree.BookmarkCount()))

	return a.manager.ImportBookmarks(ctx, tree)
}

// Close releases the store and flushes the logger.
func (a *App) Close() {
	if a.closer != nil {
		utils.MustClose(a.closer, a.backend.Name(), a.logger)
		a.closer = nil
	}
	_ = a.logger.Sync()
}

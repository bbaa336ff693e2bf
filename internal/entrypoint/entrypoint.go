package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkawano/hondana/internal/catalog"
	"github.com/mkawano/hondana/internal/config"
	"github.com/mkawano/hondana/internal/covers"
	"github.com/mkawano/hondana/internal/downloader"
	http_controllers "github.com/mkawano/hondana/internal/http"
	"github.com/mkawano/hondana/internal/library"
	"github.com/mkawano/hondana/internal/metadata"
	"github.com/mkawano/hondana/internal/scheduler"
	"github.com/mkawano/hondana/internal/search"
	"github.com/mkawano/hondana/internal/tasks"
	"github.com/mkawano/hondana/internal/translator"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		logger.Info("starting server",
			zap.String("host", cfg.HTTP.Host),
			zap.Int32("port", cfg.HTTP.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}

func Run(cfg *config.Config, version string) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting hondana", zap.String("version", version))

	// Load the library document into memory
	store := library.NewStore(cfg.Library.Path)
	manager := library.NewManager(store)
	if err := manager.Load(); err != nil {
		logger.Fatal("failed to load library", zap.String("path", cfg.Library.Path), zap.Error(err))
	}
	logger.Info("library loaded",
		zap.String("path", cfg.Library.Path),
		zap.Int("books", len(manager.GetAllBooks())))

	// Catalog sources: curated entries take precedence over live adapters,
	// then Google Books, Open Library and Gutenberg in registration order.
	curated := catalog.NewCuratedCatalog()
	googleBooks := catalog.NewGoogleBooksAdapter()
	adapters := []catalog.Adapter{
		googleBooks,
		catalog.NewOpenLibraryAdapter(),
		catalog.NewGutenbergAdapter(),
	}
	aggregator := search.NewAggregator(curated, adapters, search.Config{
		AllowedDomains: cfg.Search.AllowedDomains,
		AdapterTimeout: cfg.Search.AdapterTimeout,
	}, logger)

	searchDefaults := catalog.Options{
		MaxResults: cfg.Search.MaxResults,
		Subject:    cfg.Search.Subject,
		FreeOnly:   cfg.Search.FreeOnly,
	}

	// Cover cache for locally caching book thumbnails
	coverCache, err := covers.NewCache(cfg.Covers.CacheDir)
	if err != nil {
		logger.Warn("failed to initialize cover cache", zap.Error(err))
		coverCache = nil
	} else {
		logger.Info("cover cache initialized", zap.String("dir", cfg.Covers.CacheDir))
	}

	// Metadata enricher fills publisher/thumbnail/ISBN from Google Books
	enricher := metadata.NewEnricher(googleBooks, manager)
	if coverCache != nil {
		enricher.SetCoverInvalidator(coverCache)
	}

	dl := downloader.New(cfg.Downloads.Dir, cfg.Downloads.AllowedFileTypes, cfg.Downloads.MaxFileSizeMB, logger)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(store.Path(), taskCfg, logger)
		if err != nil {
			logger.Fatal("failed to initialize task queue", zap.Error(err))
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Error("closing task client", zap.Error(err))
			}
		}()

		taskClient.Register(
			tasks.NewDownloadBookQueue(dl, manager, logger),
			tasks.NewEnrichBookQueue(enricher, logger),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Periodic library backups
	backup := scheduler.NewBackupScheduler(store.Path(), scheduler.BackupConfig{
		Enabled:  cfg.Backup.Enabled,
		Schedule: cfg.Backup.Schedule,
		Dir:      cfg.Backup.Dir,
		Keep:     cfg.Backup.Keep,
	}, logger)
	if err := backup.Start(context.Background()); err != nil {
		logger.Fatal("failed to start backup scheduler", zap.Error(err))
	}

	routerCfg := http_controllers.RouterConfig{
		Library:        manager,
		Searcher:       aggregator,
		SearchDefaults: searchDefaults,
		CoverCache:     coverCache,
		Version:        version,
	}
	if taskClient != nil {
		routerCfg.TaskClient = taskClient
		routerCfg.TasksDB = taskClient.DB()
	}
	if cfg.Translator.Enabled {
		routerCfg.Translator = translator.New()
		routerCfg.SourceLang = cfg.Translator.DefaultSourceLang
		routerCfg.TargetLang = cfg.Translator.DefaultTargetLang
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		backup.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, logger, onShutdown)
}

// Package server initializes and runs the guestbook application server.
// It opens the database, applies migrations, wires the services together
// and starts the HTTP server with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"mydiary/internal/cache"
	"mydiary/internal/logging"
	"mydiary/internal/server/config"
	"mydiary/internal/server/repositories/repomanager"
	"mydiary/internal/server/services"
	"mydiary/internal/server/web"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	owners     *services.OwnerService
	content    *services.ContentService
	moderation *services.ModerationService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager()
	if err != nil {
		return nil, fmt.Errorf("repository init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	listings := cache.NewListingCache(cfg.ListingCacheSize, cfg.ListingCacheTTL)

	ownerSvc := services.NewOwnerService(db, rm, cfg)
	contentSvc := services.NewContentService(db, rm, listings, cfg)
	moderationSvc := services.NewModerationService(db, rm, listings)

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		owners:     ownerSvc,
		content:    contentSvc,
		moderation: moderationSvc,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := web.NewServer(app.config.EndpointAddrHTTP, app.logger,
		app.owners, app.content, app.moderation, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}

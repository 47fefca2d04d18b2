package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/ploghq/plog/internal/plog/http"
	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/internal/plog/storage"
	"github.com/ploghq/plog/internal/plog/store"
	"github.com/ploghq/plog/internal/plog/store/drivers/redisvc"
	"github.com/ploghq/plog/internal/plog/store/drivers/sqlite"
	"github.com/ploghq/plog/pkg/httpx"
	"github.com/ploghq/plog/pkg/jwtx"
	"github.com/ploghq/plog/pkg/slogx"
	"github.com/ploghq/plog/pkg/tokencache"
)

// BuildVersion is overridable at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the blog service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db        store.Store
	views     store.ViewCounts
	objects   storage.ObjectStorage
	issuer    *jwtx.Issuer
	verifier  jwtx.Verifier
	cache     *tokencache.Cache
	transport *httpx.TokenTransport

	authService      *service.AuthService
	memberService    *service.MemberService
	postService      *service.PostService
	commentService   *service.CommentService
	hashtagService   *service.HashTagService
	imageService     *service.ImageService
	viewCountService *service.ViewCountService
	viewSyncService  *service.ViewSyncService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "plog",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	issuer, err := jwtx.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	app.issuer = issuer
	app.verifier = jwtx.NewVerifier(cfg.JWTSecret)
	app.cache = tokencache.New(cfg.TokenCacheSize, issuer.RefreshTTL())
	app.transport = &httpx.TokenTransport{
		CookieDomain: cfg.CookieDomain,
		CookieSecure: cfg.CookieSecure,
		RefreshTTL:   issuer.RefreshTTL(),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initViewCounts(); err != nil {
		return nil, err
	}
	if err := app.initObjectStorage(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.viewSyncService.Start()

	app.logger.Info("plog service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down plog service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stopping the sync service flushes any buffered view counts.
	app.viewSyncService.Stop()

	if app.views != nil {
		if err := app.views.Close(); err != nil {
			app.logger.Error("error closing view counter backend", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("plog service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initViewCounts connects the Redis view counter backend when configured.
// Without Redis the service still runs; views simply aren't counted.
func (app *Application) initViewCounts() error {
	if app.cfg.RedisAddr == "" {
		app.logger.Info("view counting disabled, no redis address configured")
		return nil
	}

	views := redisvc.New(app.cfg.RedisAddr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := views.Ping(ctx); err != nil {
		_ = views.Close()
		return fmt.Errorf("failed to reach redis at %s: %w", app.cfg.RedisAddr, err)
	}

	app.views = views
	app.logger.Info("view counting enabled", "redis", app.cfg.RedisAddr)
	return nil
}

// initObjectStorage connects MinIO when configured, otherwise falls back to
// in-memory storage so local development needs no object store.
func (app *Application) initObjectStorage() error {
	if app.cfg.MinioEndpoint == "" {
		app.objects = storage.NewMemoryStorage()
		app.logger.Warn("object storage not configured, images are kept in memory")
		return nil
	}

	objects, err := storage.NewMinioStorage(context.Background(), storage.MinioConfig{
		Endpoint:  app.cfg.MinioEndpoint,
		AccessKey: app.cfg.MinioAccessKey,
		SecretKey: app.cfg.MinioSecretKey,
		Bucket:    app.cfg.MinioBucket,
		UseSSL:    app.cfg.MinioUseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	app.objects = objects
	app.logger.Info("object storage connected", "endpoint", app.cfg.MinioEndpoint, "bucket", app.cfg.MinioBucket)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:    app.db,
		Issuer:   app.issuer,
		Verifier: app.verifier,
		Cache:    app.cache,
	}
	app.memberService = &service.MemberService{Store: app.db}
	app.postService = &service.PostService{Store: app.db}
	app.commentService = &service.CommentService{Store: app.db}
	app.hashtagService = &service.HashTagService{Store: app.db}
	app.imageService = &service.ImageService{Store: app.db, Storage: app.objects}
	app.viewCountService = &service.ViewCountService{Views: app.views}

	app.viewSyncService = service.NewViewSyncService(
		app.db,
		app.views,
		app.imageService,
		app.logger,
		app.cfg.ViewSyncInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		app.transport,
		BuildVersion,
		app.db,
		app.views,
		app.logger,
	)

	router.AuthService = app.authService
	router.MemberService = app.memberService
	router.PostService = app.postService
	router.CommentService = app.commentService
	router.HashTagService = app.hashtagService
	router.ImageService = app.imageService
	router.ViewCountService = app.viewCountService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "lostfound/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"lostfound/internal/auth"
	"lostfound/internal/cache"
	"lostfound/internal/config"
	"lostfound/internal/db"
	"lostfound/internal/handler"
	"lostfound/internal/logging"
	"lostfound/internal/notify"
	"lostfound/internal/repository"
	"lostfound/internal/router"
	"lostfound/internal/service"
	"lostfound/internal/storage"
)

// @title Lost & Found API
// @version 1.0
// @description Community lost-and-found board: listings with images, comments, direct messages, success stories and a help assistant.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "database init failed", "error", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn(ctx, "redis unavailable, sessions cannot be issued", "addr", cfg.RedisAddr, "error", err)
	}

	images, uploadsDir, err := newImageStore(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "image store init failed", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}

	hub := notify.NewHub(logger)
	go hub.Run(ctx)

	// Initialize repositories
	repos := repository.New(gormDB)
	tx := repository.NewTransactor(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(repos.Users, jwtService, tokenStore)
	userService := service.NewUserService(repos.Users, cacheClient)
	itemService := service.NewItemService(tx, repos.Items, cacheClient)
	commentService := service.NewCommentService(tx, repos)
	messageService := service.NewMessageService(tx, repos, hub)
	storyService := service.NewStoryService(tx, repos.Stories)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	// Register routes
	router.Register(e, cfg, logger, router.Security{
		JWT:    jwtService,
		Tokens: tokenStore,
	}, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService),
		Item:    handler.NewItemHandler(itemService, images, logger),
		Comment: handler.NewCommentHandler(commentService),
		Message: handler.NewMessageHandler(messageService),
		Story:   handler.NewStoryHandler(storyService),
		Image:   handler.NewImageHandler(images),
		WS:      handler.NewWSHandler(hub, logger),
	}, uploadsDir)

	logger.Info(ctx, "swagger documentation available", "url", swaggerURL(cfg))

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info(ctx, "server starting", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "server start failed", "addr", addr, "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "server shutdown", "error", err)
	}
}

// openDatabase connects to the configured database, drops every table when
// RESET_DB is set, and migrates the schema.
func openDatabase(ctx context.Context, cfg *config.Config, logger logging.Logger) (*gorm.DB, error) {
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if cfg.ResetDB {
		logger.Warn(ctx, "RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logger.Warn(ctx, "failed to drop tables", "error", err)
		} else {
			logger.Info(ctx, "tables dropped")
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return gormDB, nil
}

// newImageStore returns the configured image backend and, for the local
// backend, the directory to serve under /uploads.
func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, string, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		return store, "", err
	default:
		store, err := storage.NewLocalStore(cfg.UploadDir, "")
		if err != nil {
			return nil, "", err
		}
		return store, filepath.Join(store.Dir(), "uploads"), nil
	}
}

func swaggerURL(cfg *config.Config) string {
	if cfg.SwaggerHost == "" {
		return "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	}
	// SwaggerHost may already include scheme (http:// or https://)
	if strings.HasPrefix(cfg.SwaggerHost, "http://") || strings.HasPrefix(cfg.SwaggerHost, "https://") {
		return cfg.SwaggerHost + "/swagger/index.html"
	}
	return "http://" + cfg.SwaggerHost + "/swagger/index.html"
}

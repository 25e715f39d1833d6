package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"leadflow/docs" // swagger docs

	"leadflow/internal/auth"
	"leadflow/internal/cache"
	"leadflow/internal/config"
	"leadflow/internal/db"
	"leadflow/internal/handler"
	"leadflow/internal/logger"
	"leadflow/internal/repository"
	"leadflow/internal/router"
	"leadflow/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Leadflow API
// @version 1.0
// @description Lead management API with role-scoped access, notes and notifications.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Development())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	provider := db.NewProvider(cfg.DBDriver, cfg.DSN(), log)
	defer func() {
		if err := provider.Close(); err != nil {
			log.Warn("close database", zap.Error(err))
		}
	}()

	ctx := context.Background()
	if err := db.Migrate(ctx, provider, cfg.ResetDB, log); err != nil {
		log.Fatal("database init", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		// revocation and the user cache degrade to no-ops
		log.Warn("redis unavailable, continuing without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(provider)
	leadRepo := repository.NewLeadRepository(provider)
	noteRepo := repository.NewNoteRepository(provider)
	notificationRepo := repository.NewNotificationRepository(provider)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	notifier := service.NewNotifier(userRepo, notificationRepo, service.LogDeliverer{Logger: log}, log)
	identityService := service.NewIdentityService(jwtService, tokenStore, userRepo, cacheClient, cfg.UserCacheTTL)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, leadRepo, cacheClient, cfg.UserCacheTTL, log)
	leadService := service.NewLeadService(leadRepo, noteRepo, userRepo, notifier, log)
	noteService := service.NewNoteService(leadRepo, noteRepo, userRepo, notifier)
	notificationService := service.NewNotificationService(notificationRepo)
	analyticsService := service.NewAnalyticsService(leadRepo, userRepo)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, identityService, router.Handlers{
		Auth:          handler.NewAuthHandler(authService, log),
		Leads:         handler.NewLeadHandler(leadService, log),
		Notes:         handler.NewNoteHandler(noteService, log),
		Users:         handler.NewUserHandler(userService, log),
		Notifications: handler.NewNotificationHandler(notificationService, log),
		Analytics:     handler.NewAnalyticsHandler(analyticsService, log),
	}, log)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info("swagger documentation available", zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

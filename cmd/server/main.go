package main

import (
	"context"
	"net/http"

	"utilityapi/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"utilityapi/internal/auth"
	"utilityapi/internal/cache"
	"utilityapi/internal/config"
	"utilityapi/internal/db"
	"utilityapi/internal/handler"
	"utilityapi/internal/logger"
	"utilityapi/internal/model"
	"utilityapi/internal/ratelimit"
	"utilityapi/internal/repository"
	"utilityapi/internal/router"
	"utilityapi/internal/service"
)

// @title Day-to-Day Utility Backend
// @version 1.0
// @description Backend for file and image processing tools with JWT security.
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log := logger.New("server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	gormDB, err := db.NewPostgres(cfg.PostgresDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient, err := cache.New(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis init")
	}
	if err := cacheClient.Ping(context.Background()); err != nil {
		// Not fatal: the health endpoint reports it and the rate gate fails
		// closed until Redis comes back.
		log.Warn().Err(err).Msg("redis not reachable at startup")
	}

	limiter := ratelimit.New(cacheClient.Redis(), cfg.RegisterRateTimes, cfg.RegisterRateWindow())

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL())
	if err != nil {
		log.Fatal().Err(err).Msg("token service init")
	}
	passwords := auth.NewPasswordService()
	provider := auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	states := auth.NewStateStore(cacheClient)

	// Initialize repositories and services
	users := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(users, passwords, tokens, provider, states, log)
	imageService := service.NewImageService()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	statusHandler := handler.NewStatusHandler(gormDB, cacheClient, log)
	fileHandler := handler.NewFileHandler()
	imageHandler := handler.NewImageHandler(imageService)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	router.Register(
		e,
		cfg,
		log,
		limiter,
		tokens,
		users,
		authHandler,
		statusHandler,
		fileHandler,
		imageHandler,
	)

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Msg("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}

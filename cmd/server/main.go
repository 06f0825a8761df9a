package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"templatehub-backend-go/internal/api"
	"templatehub-backend-go/internal/auth"
	"templatehub-backend-go/internal/cache"
	"templatehub-backend-go/internal/config"
	"templatehub-backend-go/internal/core"
	"templatehub-backend-go/internal/db"
	"templatehub-backend-go/internal/mailer"
	"templatehub-backend-go/internal/middleware"
	"templatehub-backend-go/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	var logger *zap.Logger
	if cfg.GinMode == gin.ReleaseMode {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	ctx := context.Background()
	if err := db.InitFirestore(ctx, cfg); err != nil {
		logger.Fatal("failed to initialize Firestore", zap.Error(err))
	}
	fsClient := db.GetFirestoreClient()
	defer fsClient.Close()
	fbAuth := db.GetFirebaseAuthClient()

	var catalogCache cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisCacheConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer redisCache.Close()
		catalogCache = redisCache
		logger.Info("catalog cache enabled", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Info("REDIS_ADDR not set, catalog cache disabled")
	}

	var mail mailer.Mailer
	if cfg.SMTPUser != "" {
		m, err := mailer.NewSMTPMailer(cfg.MailFrom, cfg.SMTPUser, cfg.SMTPPass)
		if err != nil {
			logger.Fatal("failed to configure mailer", zap.Error(err))
		}
		mail = m
	} else {
		logger.Info("SMTP_USER not set, notification mail disabled")
	}

	store, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal("failed to prepare upload storage", zap.Error(err))
	}

	templateRepo := db.NewFirestoreTemplateRepository(fsClient)
	userRepo := db.NewFirestoreUserRepository(fsClient)
	activityRepo := db.NewFirestoreActivityRepository(fsClient)
	settingsRepo := db.NewFirestoreSettingsRepository(fsClient)

	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	activityService := core.NewActivityService(activityRepo, templateRepo, userRepo, logger)
	settingsService := core.NewSettingsService(settingsRepo, activityService)
	cartService := core.NewCartService(userRepo, templateRepo, logger)
	userService := core.NewUserService(userRepo, templateRepo, cartService, activityService, fbAuth, fbAuth, logger)
	templateService := core.NewTemplateService(templateRepo, userRepo, settingsService, activityService, catalogCache, mail, logger)
	purchaseService := core.NewPurchaseService(templateRepo, activityService, catalogCache, logger)
	catalogService := core.NewCatalogService(templateRepo, catalogCache, logger)
	metricsService := core.NewMetricsService(templateRepo, userRepo)

	authmw := middleware.NewAuthMiddleware(tokens, userService, logger)

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.ClientURL))

	api.SetupRoutes(router, api.Handlers{
		Auth:      api.NewAuthHandler(userService, tokens),
		Users:     api.NewUserHandler(userService, activityService),
		Cart:      api.NewCartHandler(cartService),
		Templates: api.NewTemplateHandler(catalogService, templateService, purchaseService, store),
		Admin:     api.NewAdminHandler(templateService, userService, activityService, metricsService, settingsService),
		Analytics: api.NewAnalyticsHandler(metricsService),
	}, authmw, store.Dir())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/medguard/claim-portal/internal/ai"
	"github.com/medguard/claim-portal/internal/claims"
	"github.com/medguard/claim-portal/internal/documents"
	"github.com/medguard/claim-portal/internal/extract"
	"github.com/medguard/claim-portal/internal/fraud"
	"github.com/medguard/claim-portal/internal/policy"
	"github.com/medguard/claim-portal/internal/questions"
	"github.com/medguard/claim-portal/pkg/common"
	"github.com/medguard/claim-portal/pkg/config"
	"github.com/medguard/claim-portal/pkg/database"
	"github.com/medguard/claim-portal/pkg/health"
	"github.com/medguard/claim-portal/pkg/logger"
	"github.com/medguard/claim-portal/pkg/middleware"
	"github.com/medguard/claim-portal/pkg/redis"
	"github.com/medguard/claim-portal/pkg/storage"
	"github.com/medguard/claim-portal/pkg/validation"
)

const serviceVersion = "1.0.0"

func main() {
	cfg, err := config.Load("claim-portal")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Get().Sync()

	ctx := context.Background()

	// Run database migrations
	if err := database.RunMigrations(&cfg.Database); err != nil {
		logger.Get().Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to PostgreSQL
	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Get().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)
	logger.Info("Connected to PostgreSQL database")

	// Connect to Redis
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Get().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// File storage
	store, err := newStorage(ctx, &cfg.Storage)
	if err != nil {
		logger.Get().Fatal("Failed to initialize storage", zap.Error(err))
	}
	logger.Info("Storage initialized", zap.String("provider", cfg.Storage.Provider))

	// AI provider (optional)
	provider, err := ai.New(cfg.AI)
	if err != nil {
		logger.Get().Fatal("Failed to initialize AI provider", zap.Error(err))
	}
	if provider == nil {
		logger.Warn("AI provider disabled, dialogue and narrative use local fallbacks")
	} else {
		logger.Info("AI provider enabled", zap.String("provider", provider.Name()))
	}

	// Fraud scorer, rule-based when no model artifact exists
	scorer := fraud.NewScorerFromPath(cfg.Fraud.ModelPath)

	extractor := extract.NewExtractor()

	// Services
	policyRepo := policy.NewRepository(pool)
	policyService := policy.NewService(policyRepo, redisClient)
	if err := policyService.SeedSamplePolicies(ctx); err != nil {
		logger.Warn("Failed to seed sample policies", zap.Error(err))
	}

	claimRepo := claims.NewRepository(pool)
	documentRepo := documents.NewRepository(pool)
	questionRepo := questions.NewRepository(pool)

	claimService := claims.NewService(claimRepo, policyService, nil, nil)
	documentService := documents.NewService(documentRepo, claimService, store, extractor, cfg.Storage.MaxFileSizeMB)
	questionService := questions.NewService(questionRepo, claimService, documentService, provider)
	claimService.AttachCollaborators(documentService, questionService)

	fraudService := fraud.NewService(claimService, documentService, questionService, store, extractor, scorer, provider)

	// Handlers
	policyHandler := policy.NewHandler(policyService)
	claimHandler := claims.NewHandler(claimService)
	documentHandler := documents.NewHandler(documentService)
	questionHandler := questions.NewHandler(questionService)
	fraudHandler := fraud.NewHandler(fraudService, claimService)

	// Router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(cfg.Server.ServiceName))
	router.Use(middleware.SecurityHeaders())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Correlation-ID"}
	router.Use(cors.New(corsConfig))

	validation.RegisterCustomValidators()

	router.GET("/healthz", common.HealthCheckWithDeps(cfg.Server.ServiceName, serviceVersion, map[string]func() error{
		"database": health.DatabaseChecker(pool),
		"redis":    health.RedisChecker(redisClient.Client),
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Local storage serves uploaded files directly
	if cfg.Storage.Provider == string(storage.ProviderLocal) {
		router.Static("/files", cfg.Storage.LocalPath)
	}

	api := router.Group("/api/v1")
	{
		policyHandler.RegisterRoutes(api)
		claimHandler.RegisterRoutes(api)
		documentHandler.RegisterRoutes(api)
		questionHandler.RegisterRoutes(api)
		fraudHandler.RegisterRoutes(api)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Claim portal starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Get().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

func newStorage(ctx context.Context, cfg *config.StorageConfig) (storage.Storage, error) {
	switch storage.Provider(cfg.Provider) {
	case storage.ProviderS3:
		return storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			BaseURL:   cfg.BaseURL,
		})
	case storage.ProviderLocal:
		return storage.NewLocalStorage(cfg.LocalPath, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}

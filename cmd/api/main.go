package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobportal-backend/config"
	_ "go-jobportal-backend/docs" // Important for Swagger
	"go-jobportal-backend/internal/delivery/http/middleware"
	v1 "go-jobportal-backend/internal/delivery/http/v1"
	"go-jobportal-backend/internal/matching"
	"go-jobportal-backend/internal/repository/postgres"
	"go-jobportal-backend/internal/usecase"
	"go-jobportal-backend/pkg/database"
	"go-jobportal-backend/pkg/logger"
	"go-jobportal-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// @title           Job Portal Matching API
// @version         1.0
// @description     Job recommendation and candidate matching for the job portal.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting job portal backend", "port", cfg.Port)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.PoolConfig{
		MaxConns: int32(cfg.DBMaxConns),
		MinConns: int32(cfg.DBMinConns),
	})
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	db := database.OpenSQL(dbPool)
	defer db.Close()

	// 4. Setup Redis (optional)
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// 5. Setup Matching Engine
	taxonomy := matching.DefaultTaxonomy()
	if cfg.MatchingTaxonomyPath != "" {
		taxonomy, err = matching.LoadTaxonomyFile(cfg.MatchingTaxonomyPath)
		if err != nil {
			logger.Log.Error("Failed to load skill taxonomy", "path", cfg.MatchingTaxonomyPath, "error", err)
			os.Exit(1)
		}
	}
	logger.Log.Info("Skill taxonomy loaded", "entries", taxonomy.Len())
	engine := matching.NewEngine(taxonomy, matching.WithWorkers(cfg.MatchingWorkers))

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(db)
	jobRepo := postgres.NewJobRepository(db)

	// 7. Setup UseCases
	authUC := usecase.NewAuthUsecase(userRepo)
	recommendationUC := usecase.NewRecommendationUsecase(userRepo, jobRepo, engine, usecase.RecommendationConfig{
		DefaultJobsTopN:       cfg.MatchingDefaultJobsTopN,
		DefaultApplicantsTopN: cfg.MatchingDefaultApplicantsTopN,
		MaxTopN:               cfg.MatchingMaxTopN,
	})
	healthChecks := map[string]usecase.HealthCheck{
		"database": db.PingContext,
		"redis":    nil,
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error {
			return redis.HealthCheck(ctx, redisClient)
		}
	}
	healthUC := usecase.NewHealthUsecase(healthChecks)

	// 8. Setup Router
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		rlConfig := middleware.DefaultRateLimitConfig()
		rlConfig.Limit = cfg.RateLimitRequests
		rlConfig.Window = cfg.RateLimitWindow()
		rateLimiter = middleware.NewRateLimiter(rlConfig, redisClient)
	}

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:           authUC,
		RecommendationUC: recommendationUC,
		HealthUC:         healthUC,
		RateLimiter:      rateLimiter,
		Config:           cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

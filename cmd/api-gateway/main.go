package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-grading-api/api/swagger"
	"github.com/noah-isme/sma-grading-api/internal/handler"
	"github.com/noah-isme/sma-grading-api/internal/middleware"
	"github.com/noah-isme/sma-grading-api/internal/repository"
	"github.com/noah-isme/sma-grading-api/internal/rulesets"
	"github.com/noah-isme/sma-grading-api/internal/service"
	"github.com/noah-isme/sma-grading-api/internal/validation"
	"github.com/noah-isme/sma-grading-api/pkg/cache"
	"github.com/noah-isme/sma-grading-api/pkg/config"
	"github.com/noah-isme/sma-grading-api/pkg/database"
	"github.com/noah-isme/sma-grading-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-grading-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-grading-api/pkg/middleware/requestid"
)

// @title SMA Grading API
// @version 1.0.0
// @description Submission validation and grade band resolution for school records
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	registry, err := rulesets.Default()
	if err != nil {
		logr.Fatal("failed to load rule sets", zap.Error(err))
	}

	// Without Postgres the service still validates; exists/unique rules report LOOKUP_UNAVAILABLE.
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Warn("postgres unavailable, reference lookups disabled", zap.Error(err))
		db = nil
	} else {
		defer db.Close()
	}

	var redisClient *redis.Client
	if cfg.Validation.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, lookup cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	cacheRepo := repository.NewCacheRepository(redisClient, "sma-grading:", logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Validation.CacheTTL, logr, redisClient != nil)
	lookupSvc := service.NewLookupService(repository.NewLookupRepository(db), cacheSvc, metricsSvc, cfg.Validation.CacheTTL, logr)

	structs := validation.NewStructValidator()
	engine := validation.NewEngine(lookupSvc, structs.Validator(), cfg.Validation.RowWorkers)
	validationSvc := service.NewValidationService(registry, engine, metricsSvc, cfg.Validation.LookupTimeout, logr)
	gradingSvc := service.NewGradingService(validationSvc, structs, logr)

	validationHandler := handler.NewValidationHandler(validationSvc)
	gradingHandler := handler.NewGradingHandler(gradingSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, readinessChecks(db, redisClient))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metricsSvc, "/metrics"))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/rulesets", validationHandler.List)
	api.POST("/validate/:ruleset", validationHandler.Validate)

	scales := api.Group("/grading-scales")
	scales.POST("/validate", gradingHandler.Validate)
	scales.POST("/resolve", gradingHandler.Resolve)
	scales.POST("/regrade", gradingHandler.Regrade)
	scales.POST("/defaults/check", gradingHandler.CheckDefaults)
	scales.POST("/export", gradingHandler.Export)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "rulesets", len(registry.List()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func readinessChecks(db *sqlx.DB, client *redis.Client) map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{
		"postgres": func(ctx context.Context) error {
			if db == nil {
				return errors.New("not connected")
			}
			return db.PingContext(ctx)
		},
	}
	if client != nil {
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return checks
}

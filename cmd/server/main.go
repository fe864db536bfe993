// Package main runs the event dashboard HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eventflow/backend/config"
	"github.com/eventflow/backend/internal/attendees"
	"github.com/eventflow/backend/internal/auth"
	"github.com/eventflow/backend/internal/campaigns"
	"github.com/eventflow/backend/internal/categories"
	"github.com/eventflow/backend/internal/dashboard"
	"github.com/eventflow/backend/internal/events"
	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/organizations"
	"github.com/eventflow/backend/internal/team"
	"github.com/eventflow/backend/internal/tenant"
	"github.com/eventflow/backend/pkg/database"
	"github.com/eventflow/backend/pkg/queue"
	"github.com/eventflow/backend/pkg/redis"
	"github.com/eventflow/backend/pkg/response"
	"github.com/eventflow/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			BannersBucket:   cfg.AWS.BannersBucket,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Tenant resolution (every protected route runs inside one organization)
	resolver := tenant.NewResolver(authRepo)

	// Organizations
	orgRepo := organizations.NewRepository(pool)
	orgHandler := organizations.NewHandler(orgRepo)

	// Team
	teamRepo := team.NewRepository(pool)
	teamHandler := team.NewHandler(teamRepo)

	// Events
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, s3Client, cfg.App.BaseURL, logger)

	// Attendees and check-in
	attendeeRepo := attendees.NewRepository(pool)
	attendeeService := attendees.NewService(attendeeRepo, logger)
	attendeeHandler := attendees.NewHandler(attendeeRepo, attendeeService, logger)

	// Categories
	categoryRepo := categories.NewRepository(pool)
	categoryService := categories.NewService(categoryRepo)
	categoryHandler := categories.NewHandler(categoryService, logger)

	// Campaigns (delivery happens in cmd/worker)
	campaignRepo := campaigns.NewRepository(pool)
	campaignHandler := campaigns.NewHandler(campaignRepo, jobQueue, logger)

	// Dashboard
	dashboardAgg := dashboard.NewAggregator(eventRepo, attendeeRepo, campaignRepo)
	dashboardHandler := dashboard.NewHandler(dashboardAgg, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public event page (no auth)
	router.GET("/public/events/:publicId", eventHandler.GetPublic)

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
	}

	// Protected API (JWT + organization)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	api.GET("/auth/me", authHandler.Me)
	api.Use(tenant.Middleware(resolver))
	{
		// Organization settings
		api.GET("/organization", orgHandler.Get)
		api.PATCH("/organization", middleware.RequireRole("admin"), orgHandler.Update)

		// Team (admin only)
		api.GET("/team", teamHandler.List)
		api.POST("/team/invite", middleware.RequireRole("admin"), teamHandler.Invite)
		api.DELETE("/team/:id", middleware.RequireRole("admin"), teamHandler.Remove)

		// Events
		api.GET("/events", eventHandler.List)
		api.GET("/events/stats", eventHandler.GetStats)
		api.POST("/events", eventHandler.Create)
		api.GET("/events/:id", eventHandler.GetByID)
		api.PATCH("/events/:id", eventHandler.Update)
		api.DELETE("/events/:id", eventHandler.Delete)
		api.POST("/events/:id/banner", eventHandler.UploadBanner)

		// Attendees
		api.GET("/attendees", attendeeHandler.List)
		api.POST("/attendees", attendeeHandler.Create)
		api.POST("/attendees/import", attendeeHandler.BulkImport)
		api.GET("/attendees/:id", attendeeHandler.GetByID)
		api.PATCH("/attendees/:id", attendeeHandler.Update)
		api.DELETE("/attendees/:id", attendeeHandler.Delete)
		api.GET("/attendees/:id/qrcode", attendeeHandler.GetQRCode)

		// QR check-in
		api.POST("/checkin", attendeeHandler.CheckIn)

		// Categories
		api.GET("/categories", categoryHandler.List)
		api.POST("/categories", categoryHandler.Create)
		api.PATCH("/categories/:id", categoryHandler.Update)
		api.DELETE("/categories/:id", categoryHandler.Delete)
		api.POST("/categories/:id/subcategories", categoryHandler.CreateSubcategory)
		api.DELETE("/subcategories/:id", categoryHandler.DeleteSubcategory)

		// Email campaigns
		api.GET("/campaigns", campaignHandler.List)
		api.POST("/campaigns", campaignHandler.Create)
		api.GET("/campaigns/:id", campaignHandler.GetByID)
		api.PATCH("/campaigns/:id", campaignHandler.Update)
		api.DELETE("/campaigns/:id", campaignHandler.Delete)
		api.POST("/campaigns/:id/send", campaignHandler.Send)

		// Dashboard
		api.GET("/dashboard/stats", dashboardHandler.GetStats)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

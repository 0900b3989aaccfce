package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/cieges/room-agenda-api/api/swagger"
	"github.com/cieges/room-agenda-api/internal/handler"
	"github.com/cieges/room-agenda-api/internal/middleware"
	"github.com/cieges/room-agenda-api/internal/models"
	"github.com/cieges/room-agenda-api/internal/repository"
	"github.com/cieges/room-agenda-api/internal/service"
	"github.com/cieges/room-agenda-api/pkg/cache"
	"github.com/cieges/room-agenda-api/pkg/config"
	"github.com/cieges/room-agenda-api/pkg/database"
	"github.com/cieges/room-agenda-api/pkg/logger"
	corsmiddleware "github.com/cieges/room-agenda-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cieges/room-agenda-api/pkg/middleware/requestid"
	"github.com/cieges/room-agenda-api/pkg/storage"
)

// @title Room Agenda API
// @version 1.0.0
// @description Meeting room scheduling backend with weekly calendar grids
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, calendar cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	calendarSvc := service.NewCalendarService(meetingRepo, cacheRepo, cfg.Calendar.CacheTTL, logr)
	meetingSvc := service.NewMeetingService(meetingRepo, userRepo, calendarSvc, validate, logr)
	healthSvc := service.NewHealthService(db, cfg.App.Name, cfg.App.Version, logr)
	metricsSvc := service.NewMetricsService()
	calendarSvc.SetMetrics(metricsSvc)

	exportStore, err := storage.NewLocalStorage(cfg.Monitoring.ExportDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Monitoring.SignedURLSecret, cfg.Monitoring.SignedURLTTL)
	monitoringSvc := service.NewMonitoringService(auditRepo, exportStore, signer, validate, logr, service.MonitoringConfig{
		Workers:         cfg.Monitoring.WorkerConcurrency,
		Retries:         cfg.Monitoring.WorkerRetries,
		ResultTTL:       cfg.Monitoring.SignedURLTTL,
		CleanupInterval: cfg.Monitoring.CleanupInterval,
		AuditRetention:  cfg.Monitoring.AuditRetention,
	})
	monitoringSvc.SetMetrics(metricsSvc)
	if cfg.Monitoring.Enabled {
		monitoringSvc.Start(ctx)
		defer monitoringSvc.Stop()
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	meetingHandler := handler.NewMeetingHandler(meetingSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	healthHandler := handler.NewHealthHandler(healthSvc)
	monitoringHandler := handler.NewMonitoringHandler(monitoringSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/health", healthHandler.Check)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)

			authed := auth.Group("", middleware.JWT(authSvc))
			authed.POST("/logout", authHandler.Logout)
			authed.POST("/change-password", authHandler.ChangePassword)
			authed.GET("/me", authHandler.Me)
		}

		users := api.Group("/users", middleware.JWT(authSvc))
		{
			users.POST("", middleware.RequireRoles(models.RoleAdmin), userHandler.Create)
			users.GET("", middleware.RequireRoles(models.RoleAdmin), userHandler.List)
			users.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), userHandler.Get)
			users.PUT("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), userHandler.Update)
			users.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), userHandler.Delete)
		}

		meetings := api.Group("/meetings", middleware.JWT(authSvc))
		{
			meetings.GET("", meetingHandler.List)
			meetings.GET("/:id", meetingHandler.Get)
			meetings.POST("", meetingHandler.Create)
			meetings.PUT("/:id", meetingHandler.Update)
			meetings.DELETE("/:id", meetingHandler.Delete)
		}

		calendar := api.Group("/calendar", middleware.JWT(authSvc))
		{
			calendar.GET("/week", calendarHandler.Week)
			calendar.GET("/month", calendarHandler.Month)
		}

		monitoring := api.Group("/monitoring")
		{
			// Downloads authenticate through the signed token itself.
			monitoring.GET("/download/:token", monitoringHandler.Download)

			admin := monitoring.Group("", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
			admin.GET("/audit", monitoringHandler.ListAuditLogs)
			admin.POST("/export", middleware.Audit(userRepo, models.AuditActionExport, "monitoring"), monitoringHandler.Export)
			admin.GET("/export/:id", monitoringHandler.GetExportJob)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

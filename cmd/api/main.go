package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/padelcore/padelcore-api/api/swagger"
	"github.com/padelcore/padelcore-api/internal/handler"
	"github.com/padelcore/padelcore-api/internal/middleware"
	"github.com/padelcore/padelcore-api/internal/models"
	"github.com/padelcore/padelcore-api/internal/repository"
	"github.com/padelcore/padelcore-api/internal/service"
	"github.com/padelcore/padelcore-api/pkg/cache"
	"github.com/padelcore/padelcore-api/pkg/config"
	"github.com/padelcore/padelcore-api/pkg/database"
	"github.com/padelcore/padelcore-api/pkg/events"
	"github.com/padelcore/padelcore-api/pkg/jobs"
	"github.com/padelcore/padelcore-api/pkg/logger"
	corsmiddleware "github.com/padelcore/padelcore-api/pkg/middleware/cors"
	reqidmiddleware "github.com/padelcore/padelcore-api/pkg/middleware/requestid"
)

// @title Padelcore API
// @version 1.0.0
// @description Tournament and match approval workflow with real-time fanout
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("postgres unavailable", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("redis unavailable", "error", err)
	}
	defer redisClient.Close()

	metricsSvc := service.NewMetricsService()

	var bus events.Bus
	if cfg.Events.Backend == "memory" {
		bus = events.NewMemoryBus()
	} else {
		bus = events.NewRedisBus(redisClient, logr)
	}
	bus = events.Instrument(bus, metricsSvc.ObserveEventPublished)

	approvalRepo := repository.NewApprovalRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	tournamentRepo := repository.NewTournamentRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	userRepo := repository.NewUserRepository(db)
	rankingRepo := repository.NewRankingRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	activitySvc := service.NewActivityService(activityRepo, bus, cfg.Activity.Retention, logr)
	tournamentSvc := service.NewTournamentService(tournamentRepo, logr)
	matchSvc := service.NewMatchService(matchRepo, tournamentRepo, userRepo, logr)
	userSvc := service.NewUserService(userRepo, logr)

	approvalSvc := service.NewApprovalService(approvalRepo, activityRepo, tournamentRepo, userRepo, bus, logr)
	approvalSvc.AttachMetrics(metricsSvc)

	authSvc := service.NewAuthService(userRepo, activitySvc, bus, validator.New(), logr, service.AuthConfig{
		Secret:        cfg.JWT.Secret,
		AccessExpiry:  cfg.JWT.Expiration,
		RefreshExpiry: cfg.JWT.RefreshExpiration,
		Issuer:        cfg.JWT.Issuer,
	})

	rankingSvc := service.NewRankingService(rankingRepo, userRepo, cacheRepo, cfg.Ranking.CacheTTL, logr)
	rankingSvc.AttachMetrics(metricsSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rankingQueue := jobs.NewQueue("ranking", func(ctx context.Context, job jobs.Job) error {
		_, err := rankingSvc.GenerateSnapshot(ctx)
		return err
	}, jobs.QueueConfig{
		Workers: cfg.Ranking.WorkerConcurrency,
		Logger:  logr,
	})
	rankingQueue.Start(ctx)
	defer rankingQueue.Stop()
	rankingSvc.AttachQueue(rankingQueue)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Activity.CleanupSchedule, func() {
		if _, err := activitySvc.Sweep(ctx); err != nil {
			logr.Sugar().Warnw("activity sweep failed", "error", err)
		}
	}); err != nil {
		logr.Sugar().Fatalw("invalid activity cleanup schedule", "error", err)
	}
	if _, err := scheduler.AddFunc(cfg.Ranking.SnapshotSchedule, func() {
		if err := rankingSvc.EnqueueSnapshot(ctx); err != nil {
			logr.Sugar().Warnw("ranking snapshot enqueue failed", "error", err)
		}
	}); err != nil {
		logr.Sugar().Fatalw("invalid ranking snapshot schedule", "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	approvalHandler := handler.NewApprovalHandler(approvalSvc)
	activityHandler := handler.NewActivityHandler(activitySvc, cfg.Activity.PageSize)
	tournamentHandler := handler.NewTournamentHandler(tournamentSvc)
	matchHandler := handler.NewMatchHandler(matchSvc)
	userHandler := handler.NewUserHandler(userSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	rankingHandler := handler.NewRankingHandler(rankingSvc)
	wsHandler := handler.NewWSHandler(bus, authSvc, metricsSvc, logr)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, func() error {
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authRequired := middleware.JWT(authSvc)
	authOptional := middleware.OptionalJWT(authSvc)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		approvals := api.Group("/aprobaciones", authRequired)
		{
			approvals.POST("", approvalHandler.Create)
			approvals.GET("", approvalHandler.List)
			approvals.GET("/:id", approvalHandler.Get)
			approvals.PATCH("/:id/approve", adminOnly, approvalHandler.Approve)
			approvals.PATCH("/:id/reject", adminOnly, approvalHandler.Reject)
		}

		activities := api.Group("/actividades")
		{
			activities.GET("", authOptional, activityHandler.List)
			activities.POST("/sweep", authRequired, adminOnly, activityHandler.Sweep)
		}

		tournaments := api.Group("/torneos")
		{
			tournaments.GET("", authOptional, tournamentHandler.List)
			tournaments.GET("/:id", authOptional, tournamentHandler.Get)
			tournaments.POST("", authRequired, adminOnly, tournamentHandler.Create)
			tournaments.PUT("/:id", authRequired, adminOnly, tournamentHandler.Update)
			tournaments.DELETE("/:id", authRequired, adminOnly, tournamentHandler.Delete)
		}

		matches := api.Group("/partidos")
		{
			matches.GET("", authOptional, matchHandler.List)
			matches.GET("/:id", authOptional, matchHandler.Get)
			matches.POST("", authRequired, adminOnly, matchHandler.Create)
			matches.PATCH("/:id/resultado", authRequired, adminOnly, matchHandler.SetResult)
			matches.DELETE("/:id", authRequired, adminOnly, matchHandler.Delete)
		}

		users := api.Group("/usuarios", authRequired)
		{
			users.GET("", adminOnly, userHandler.List)
			users.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), userHandler.Get)
			users.PUT("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), userHandler.Update)
			users.DELETE("/:id", adminOnly, userHandler.Delete)
		}

		rankings := api.Group("/rankings")
		{
			rankings.GET("", authOptional, rankingHandler.List)
			rankings.POST("/generate", authRequired, adminOnly, rankingHandler.Generate)
		}
	}

	ws := r.Group("/ws")
	{
		ws.GET("/aprobaciones", wsHandler.Workflow)
		ws.GET("/actividad", wsHandler.Activity)
		ws.GET("/jugador", wsHandler.Player)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

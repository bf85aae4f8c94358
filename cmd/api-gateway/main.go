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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/hr-onboard-api/api/swagger"
	"github.com/noah-isme/hr-onboard-api/internal/handler"
	"github.com/noah-isme/hr-onboard-api/internal/middleware"
	"github.com/noah-isme/hr-onboard-api/internal/models"
	"github.com/noah-isme/hr-onboard-api/internal/notifier"
	"github.com/noah-isme/hr-onboard-api/internal/repository"
	"github.com/noah-isme/hr-onboard-api/internal/service"
	"github.com/noah-isme/hr-onboard-api/pkg/cache"
	"github.com/noah-isme/hr-onboard-api/pkg/config"
	"github.com/noah-isme/hr-onboard-api/pkg/database"
	"github.com/noah-isme/hr-onboard-api/pkg/jobs"
	"github.com/noah-isme/hr-onboard-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/hr-onboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/hr-onboard-api/pkg/middleware/requestid"
)

// @title HR Onboard API
// @version 0.1.0
// @description Learning assignment and deadline notification engine
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	assignmentRepo := repository.NewAssignmentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	fresherRepo := repository.NewFresherRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	dispatcher := notifier.NewDispatcher(notificationRepo, redisClient,
		cfg.Notifications.ChannelBase, cfg.Notifications.SenderName, logr)

	assignmentSvc := service.NewAssignmentService(assignmentRepo, progressRepo, catalogRepo, fresherRepo, dispatcher, validate, logr)
	progressSvc := service.NewProgressService(assignmentRepo, progressRepo, fresherRepo, validate, logr)
	reminderSvc := service.NewReminderService(assignmentRepo, progressRepo, fresherRepo, dispatcher,
		cfg.Jobs.ReminderResendAfter, metricsSvc, logr)
	milestoneSvc := service.NewMilestoneService(assignmentRepo, progressRepo, fresherRepo, rosterRepo, dispatcher,
		cfg.Jobs.MilestoneDays, metricsSvc, logr)
	expirySvc := service.NewExpiryService(assignmentRepo, progressRepo, fresherRepo, rosterRepo, dispatcher, metricsSvc, logr)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration)

	learningHandler := handler.NewLearningHandler(assignmentSvc, progressSvc)
	jobHandler := handler.NewJobHandler(reminderSvc, milestoneSvc, expirySvc)
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

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokenSvc))

	learning := api.Group("/learning")
	learning.Use(middleware.RBAC(models.RoleAdmin, models.RoleHR))
	{
		learning.POST("/assignments", learningHandler.Assign)
		learning.POST("/freshers/:id/resources", learningHandler.AddResource)
		learning.GET("/freshers/:id/progress", learningHandler.GetProgress)
		learning.PATCH("/freshers/:id/progress/:itemNo", learningHandler.UpdateProgress)
	}

	jobGroup := api.Group("/jobs")
	jobGroup.Use(middleware.RBAC(models.RoleAdmin, models.RoleScheduler))
	{
		jobGroup.POST("/reminders", jobHandler.RunReminders)
		jobGroup.POST("/milestones", jobHandler.RunMilestones)
		jobGroup.POST("/expiry", jobHandler.RunExpiry)
	}

	runner := jobs.NewRunner(logr)
	runner.Register(service.JobReminders, func(ctx context.Context, now time.Time) error {
		_, err := reminderSvc.Run(ctx, now)
		return err
	})
	runner.Register(service.JobMilestones, func(ctx context.Context, now time.Time) error {
		_, err := milestoneSvc.Run(ctx, now)
		return err
	})
	runner.Register(service.JobExpiry, func(ctx context.Context, now time.Time) error {
		_, err := expirySvc.Run(ctx, now)
		return err
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var scheduler *jobs.Scheduler
	if cfg.Jobs.RunnerEnabled {
		scheduler = jobs.NewScheduler(runner, cfg.Jobs.RunnerInterval, logr)
		scheduler.Start(rootCtx)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Sugar().Infow("shutting down")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

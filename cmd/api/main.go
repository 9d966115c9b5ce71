package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hammaslab/workcard-api/internal/config"
	"github.com/hammaslab/workcard-api/internal/database"
	"github.com/hammaslab/workcard-api/internal/handler"
	"github.com/hammaslab/workcard-api/internal/middleware"
	"github.com/hammaslab/workcard-api/internal/repository"
	"github.com/hammaslab/workcard-api/internal/router"
	"github.com/hammaslab/workcard-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	workCardRepo := repository.NewWorkCardRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	progressService := service.NewProgressService(taskRepo, redisClient, cfg.ProgressCacheTTL, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	courseService := service.NewCourseService(courseRepo, validate, logger)
	workCardService := service.NewWorkCardService(workCardRepo, courseRepo, validate, logger)
	taskService := service.NewTaskService(taskRepo, submissionRepo, validate, progressService, notificationService, logger)
	seedService := service.NewSeedService(db, courseRepo, taskRepo, cfg.SeedEnabled, cfg.SeedToken, logger)

	seeded, err := seedService.EnsureDefaults(context.Background())
	if err != nil {
		log.Fatalf("failed to seed default catalog: %v", err)
	}
	if !seeded.Skipped {
		logger.Info().
			Int("courses", seeded.CoursesSeeded).
			Int("tasks", seeded.TasksSeeded).
			Msg("installed default catalog")
	}

	courseHandler := handler.NewCourseHandler(courseService, logger)
	workCardHandler := handler.NewWorkCardHandler(workCardService, logger)
	taskHandler := handler.NewTaskHandler(taskService, progressService, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:       courseHandler,
		WorkCardHandler:     workCardHandler,
		TaskHandler:         taskHandler,
		NotificationHandler: notificationHandler,
		SeedHandler:         seedHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		SubmitLimiter:       middleware.RateLimit("task-submit", cfg.SubmitRateMax, cfg.SubmitRateWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

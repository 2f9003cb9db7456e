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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examhall/examhall-api/internal/config"
	"github.com/examhall/examhall-api/internal/database"
	"github.com/examhall/examhall-api/internal/handler"
	"github.com/examhall/examhall-api/internal/middleware"
	"github.com/examhall/examhall-api/internal/models"
	"github.com/examhall/examhall-api/internal/repository"
	"github.com/examhall/examhall-api/internal/router"
	"github.com/examhall/examhall-api/internal/service"
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

	if err := db.AutoMigrate(&models.User{}, &models.Exam{}, &models.Question{}, &models.Option{}, &models.Result{}, &models.Answer{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, dashboard summaries are uncached")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	examRepo := repository.NewExamRepository(db)
	resultRepo := repository.NewResultRepository(db)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	examService := service.NewExamService(examRepo, resultRepo, validate, logger)
	resultService := service.NewResultService(resultRepo, examRepo, validate, logger)
	dashboardService := service.NewDashboardService(resultRepo, redisClient, cfg.SummaryCacheTTL, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	examHandler := handler.NewExamHandler(examService, logger)
	resultHandler := handler.NewResultHandler(resultService, dashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:   authHandler,
		ExamHandler:   examHandler,
		ResultHandler: resultHandler,
		JWTMiddleware: middleware.JWTProtected(cfg.JWTSecret),
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

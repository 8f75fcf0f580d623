package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/musicu/api/internal/client"
	"github.com/musicu/api/internal/config"
	"github.com/musicu/api/internal/handler"
	"github.com/musicu/api/internal/middleware"
	"github.com/musicu/api/internal/service"
	"github.com/musicu/api/internal/store"
	"github.com/musicu/api/internal/vibe"
	"github.com/musicu/api/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize validator
	validate := validator.New()

	// Initialize Gemini client
	geminiClient := client.NewGeminiClient(&cfg.Gemini)
	if !geminiClient.IsConfigured() {
		log.Println("Info: Gemini API key not configured, using mock generation")
	}

	// Initialize stores and services
	userStore := store.NewUserStore(redisClient)
	historyStore := store.NewHistoryStore(redisClient)
	userService := service.NewUserService(userStore, cfg.JWT.Secret, cfg.JWT.Expiration)
	historyService := service.NewHistoryService(historyStore, asynqClient)

	// Initialize the vibe orchestrator
	orchestrator := vibe.NewOrchestrator(geminiClient, historyService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, validate)
	vibeHandler := handler.NewVibeHandler(orchestrator, historyService, validate)

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	isDebug := strings.EqualFold(cfg.Server.LogLevel, "debug")
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if isDebug {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Base URL - timestamp
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"gemini": geminiClient.IsConfigured(),
				"redis":  redisClient.Ping(c.Context()).Err() == nil,
				"auth":   cfg.JWT.Secret != "",
			},
		})
	})

	// Auth routes
	authRoutes := app.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)

	// API routes: session resolved for everyone, guests included
	api := app.Group("/api", sessionMiddleware.Resolve())

	vibeRoutes := api.Group("/vibe")
	vibeRoutes.Post("/generate", rateLimiter.VibeLimit(cfg.RateLimit.VibePerMin), vibeHandler.Generate)
	vibeRoutes.Get("/history", sessionMiddleware.RequireAuthenticated(), vibeHandler.History)

	// Start Asynq worker server for history writes
	go startWorkerServer(cfg, historyService)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(cfg *config.Config, historyService *service.HistoryService) {
	asynqLogLevel := asynq.InfoLevel
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		asynqLogLevel = asynq.DebugLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "warn") {
		asynqLogLevel = asynq.WarnLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "error") {
		asynqLogLevel = asynq.ErrorLevel
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"history": 1,
			},
			LogLevel: asynqLogLevel,
		},
	)

	historyWorker := worker.NewHistoryWorker(historyService)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeHistorySave, historyWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}

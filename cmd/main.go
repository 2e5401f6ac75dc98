package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-mbaas/internal/config"
	"todo-mbaas/internal/di"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/shared/response"
	httpadapter "todo-mbaas/internal/todo/adapter/http"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	appLogger.Infof("Configuration loaded, environment %s", cfg.Environment)

	accessLog, err := httpadapter.NewAccessLogger(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create access logger: %v", err)
	}
	defer func() { _ = accessLog.Sync() }()

	container := di.NewContainer(cfg, appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	initCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := container.Initialize(initCtx); err != nil {
		appLogger.Fatalf("Failed to initialize application: %v", err)
	}

	todoModule := container.GetToDoModule()
	if cfg.Data.SeedMasterData {
		if err := todoModule.SeedMasterData(initCtx); err != nil {
			appLogger.Fatalf("Failed to seed master data: %v", err)
		}
		appLogger.Info("Master data seeded")
	}

	app := fiber.New(fiber.Config{
		AppName:      "ToDo mBaaS",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: httpadapter.ErrorHandler(appLogger),
	})

	app.Use(recover.New())
	app.Use(httpadapter.RequestID())
	app.Use(httpadapter.RequestContext())
	app.Use(httpadapter.AccessLog(accessLog))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
	}))
	app.Use(httpadapter.RateLimiter(cfg.Server.RateLimitMax))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Your Cloud App is Running")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			env := response.NewError(response.StatusServerError, "Health", "Service Unavailable", err.Error())
			return c.Status(fiber.StatusServiceUnavailable).JSON(env)
		}
		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"timestamp": time.Now().UTC(),
		})
	})

	todoModule.RegisterRoutes(app)

	serverAddr := cfg.Server.Addr()
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			appLogger.Errorf("Server failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Copay-Africa/copay-server-sub001/database"
	"github.com/Copay-Africa/copay-server-sub001/internal/config"
	"github.com/Copay-Africa/copay-server-sub001/internal/models"
	"github.com/Copay-Africa/copay-server-sub001/internal/routes"
	"github.com/Copay-Africa/copay-server-sub001/internal/services"
	"github.com/Copay-Africa/copay-server-sub001/internal/storage"
	"github.com/Copay-Africa/copay-server-sub001/internal/ussd"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		err := godotenv.Load(".env")
		if err != nil {
			err = godotenv.Load("environments/.env.development")
			if err != nil {
				log.Println("⚠️  No .env file found - checking environment variables")
			}
		}
	}

	cfg := config.Load()

	// Initialize storage
	var store storage.Store

	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		// Connect to database
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		// Run migrations
		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Member{},
			&models.Cooperative{},
			&models.PaymentType{},
			&models.Payment{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}
	storage.SetStore(store)

	if cfg.SeedDemoData {
		if err := services.SeedDemoData(store); err != nil {
			log.Printf("⚠️  Demo data seeding failed: %v", err)
		}
	}

	// Initialize the session store: shared Redis in production so the
	// gateway scales horizontally, in-memory otherwise
	var sessionStore ussd.SessionStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal("Failed to connect to Redis:", err)
		}
		cancel()
		sessionStore = ussd.NewRedisSessionStore(client)
		log.Println("✅ Using Redis session storage")
	} else {
		sessionStore = ussd.NewMemorySessionStore()
		log.Println("⚠️  Using in-memory session storage (single instance only)")
	}

	// Wire the conversation engine
	directories := services.NewDirectoryService(store)
	paymentService := services.NewPaymentService(store)
	engine := ussd.NewEngine(ussd.Dependencies{
		Sessions:     sessionStore,
		Members:      directories,
		PINs:         services.NewPINService(),
		Cooperatives: directories,
		PaymentTypes: services.NewPaymentTypeDirectoryService(store),
		Payments:     paymentService,
		History:      paymentService,
	})
	engine.SetSessionTTL(cfg.SessionTTL)

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Copay USSD Gateway v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Service info endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     "Copay USSD Gateway",
			"version":     "1.0.0",
			"status":      "healthy",
			"environment": getEnvironment(),
			"storage":     getStorageType(cfg),
			"sessions":    getSessionStorageType(cfg),
		})
	})

	// Health check endpoint for monitoring
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		statusCode := 200

		// Check database if using it
		if !cfg.UseMemoryStore && database.DB != nil {
			sqlDB, err := database.DB.DB()
			if err != nil || sqlDB.Ping() != nil {
				status = "unhealthy"
				statusCode = 503
			}
		}

		return c.Status(statusCode).JSON(fiber.Map{
			"status": status,
		})
	})

	// Setup USSD routes
	routes.SetupRoutes(app, cfg, engine)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 Copay USSD Gateway starting on port %s", cfg.Port)
	log.Printf("📊 Storage: %s", getStorageType(cfg))
	log.Printf("💬 Sessions: %s (TTL %s)", getSessionStorageType(cfg), cfg.SessionTTL)
	log.Printf("🌍 Environment: %s", getEnvironment())
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.Port))
}

func getEnvironment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func getStorageType(cfg config.Config) string {
	if cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getSessionStorageType(cfg config.Config) string {
	if cfg.RedisAddr != "" {
		return "Redis"
	}
	return "In-Memory"
}

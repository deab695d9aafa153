package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

// openDatabase opens the one process-wide GORM connection pool. PostgreSQL
// is the production driver; SQLite serves local development and tests.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewApp builds the Fiber application: configuration, database pool,
// migrations, repositories, services, handlers and routes. The returned
// *gorm.DB is the pool to close at shutdown.
func NewApp() (*fiber.App, *gorm.DB, error) {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "storefront.db")
	viper.SetDefault("JWT_SECRET", "dev_jwt_secret")
	viper.AutomaticEnv()

	appEnv := viper.GetString("APP_ENV")

	db, err := openDatabase(viper.GetString("DATABASE_DRIVER"), viper.GetString("DATABASE_DSN"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.User{}, &models.Order{}, &models.OrderItem{}); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Repositories
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// Services
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo)
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))

	// Handlers
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.NewErrorHandler(appEnv),
	})

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))

	// Preflight support: OPTIONS on any route answers 200 with no body,
	// carrying the permissive CORS headers itself. Registered ahead of the
	// cors middleware, which would otherwise short-circuit preflights with
	// 204. SendStatus would write the status text into the empty body.
	app.Options("/*", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderAccessControlAllowMethods, "GET,POST,HEAD,PUT,DELETE,PATCH")
		c.Set(fiber.HeaderAccessControlAllowHeaders, "Origin, Content-Type, Accept, Authorization")
		return c.Status(fiber.StatusOK).SendString("")
	})

	app.Use(cors.New()) // permissive defaults: any origin

	// API Routes
	apiV1 := app.Group("/api/v1")

	// Public routes: authentication and catalog reads.
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)

	// Protected routes: orders and catalog mutations.
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	orderHandler.RegisterRoutes(protected)
	productHandler.RegisterAdminRoutes(protected)

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, db, nil
}

func main() {
	viper.SetDefault("APP_PORT", ":8080")
	viper.AutomaticEnv()
	appPort := viper.GetString("APP_PORT")

	app, db, err := NewApp()
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	// Release the database pool exactly once, after in-flight requests
	// have drained.
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database pool: %v", err)
		}
	}

	log.Println("Server gracefully stopped")
}

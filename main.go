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

	"github.com/LukasNolting/JOIN-Backend/internal/config"
	"github.com/LukasNolting/JOIN-Backend/internal/handlers"
	"github.com/LukasNolting/JOIN-Backend/internal/middleware"
	"github.com/LukasNolting/JOIN-Backend/internal/monitoring"
	"github.com/LukasNolting/JOIN-Backend/internal/repositories"
	"github.com/LukasNolting/JOIN-Backend/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Application holds all application dependencies and state.
type Application struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router *gin.Engine
	Server *http.Server

	// Services
	AuthService    services.AuthService
	UserService    services.UserService
	TaskService    services.TaskService
	ContactService services.ContactService
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.setupRoutes()
	app.startServer()
}

func initializeApplication(cfg *config.Config) (*Application, error) {
	app := &Application{
		Config: cfg,
	}

	log.Println("Initializing Join backend...")
	log.Printf("Environment: %s", cfg.Server.Environment)

	db, err := repositories.NewDatabaseConfig(cfg).Connect()
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	app.DB = db
	log.Println("Database connected")

	migrationConfig := &repositories.MigrationConfig{
		MigrationsPath: "file://migrations",
		DBName:         cfg.Database.Name,
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
	}
	if err := repositories.RunMigrations(db, migrationConfig); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable: %v (falling back to in-memory rate limiting)", err)
	} else {
		app.Redis = redisClient
		log.Println("Redis connected")
	}

	app.AuthService = services.NewAuthService()
	app.UserService = services.NewUserService()
	app.ContactService = services.NewContactService()
	app.TaskService = services.NewTaskService(services.NewSubtaskReconciler())

	log.Println("All services initialized")

	return app, nil
}

func (app *Application) setupRoutes() {
	r := gin.New()

	r.Use(gin.Logger())
	r.Use(monitoring.MetricsMiddleware())
	r.Use(middleware.RecoveryWithLog())

	if app.Redis != nil {
		limiter := middleware.NewDistributedRateLimiter(app.Redis)
		r.Use(limiter.CreateMiddleware("global", &middleware.RateLimit{
			Rate:    app.Config.RateLimit.RequestsPerMin,
			Window:  time.Minute,
			KeyFunc: middleware.IPKeyFunc,
		}))
	} else {
		limit := rate.Limit(float64(app.Config.RateLimit.RequestsPerMin) / 60.0)
		r.Use(middleware.RateLimiter(limit, app.Config.RateLimit.BurstSize))
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5500", "http://127.0.0.1:5500"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", app.healthHandler())
	r.GET("/ready", app.readinessHandler())
	r.GET("/metrics", monitoring.MetricsHandler())

	authHandler := handlers.NewAuthHandler(app.DB, app.AuthService)
	userHandler := handlers.NewUserHandler(app.DB, app.UserService)
	taskHandler := handlers.NewTaskHandler(app.DB, app.TaskService)
	contactHandler := handlers.NewContactHandler(app.DB, app.ContactService)

	r.POST("/login/", authHandler.Login)
	r.POST("/users/", userHandler.Register)
	r.DELETE("/users/:id/", userHandler.DeleteUser)

	api := r.Group("/api")
	if app.Config.Auth.Required {
		api.Use(middleware.TokenAuth(app.DB, app.AuthService))
	}
	{
		api.GET("/users/", userHandler.GetUsers)

		api.GET("/tasks/", taskHandler.GetTasks)
		api.POST("/tasks/", taskHandler.CreateTask)
		api.GET("/tasks/:id/", taskHandler.GetTaskByID)
		api.PUT("/tasks/:id/", taskHandler.UpdateTask)
		api.DELETE("/tasks/:id/", taskHandler.DeleteTask)

		api.GET("/contacts/", contactHandler.GetContacts)
		api.POST("/contacts/", contactHandler.CreateContact)
		api.PUT("/contacts/:id/", contactHandler.UpdateContact)
		api.DELETE("/contacts/:id/", contactHandler.DeleteContact)
	}

	app.Router = r
}

func (app *Application) startServer() {
	addr := app.Config.GetServerAddr()

	app.Server = &http.Server{
		Addr:         addr,
		Handler:      app.Router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.Server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}

		app.cleanup()
		log.Println("Server stopped gracefully")
	}()

	log.Printf("Server starting on %s", addr)

	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func (app *Application) cleanup() {
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			log.Printf("Error closing redis: %v", err)
		}
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		}
	}
}

func (app *Application) healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "join-backend",
		}

		if err := repositories.Health(app.DB); err != nil {
			health["status"] = "unhealthy"
			health["database"] = "down"
			c.JSON(http.StatusServiceUnavailable, health)
			return
		}
		health["database"] = "up"

		if app.Redis != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := app.Redis.Ping(ctx).Err(); err != nil {
				health["redis"] = "down"
			} else {
				health["redis"] = "up"
			}
		}

		c.JSON(http.StatusOK, health)
	}
}

func (app *Application) readinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repositories.Health(app.DB); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"reason": "database not ready",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ready": true})
	}
}

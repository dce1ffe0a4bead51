package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"realty-cms/internal/cleanup"
	"realty-cms/internal/config"
	"realty-cms/internal/handlers"
	"realty-cms/internal/ratelimit"
	"realty-cms/internal/repository"
	"realty-cms/internal/scheduler"
	"realty-cms/internal/search"
	"realty-cms/internal/storage"
	"realty-cms/internal/uploads"
)

var (
	appConfig      *config.Config
	store          storage.Store
	uploadManager  *uploads.Manager
	repo           *repository.Repository
	searchClient   *search.Client
	rateLimiter    *ratelimit.Limiter
	appScheduler   *scheduler.Scheduler
	cleanupService *cleanup.Service
)

func main() {
	// .env is optional; real deployments set env vars directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	var err error
	appConfig, err = config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Initialize the property store based on configuration
	storeType := appConfig.Storage.Type
	if storeType == "" {
		storeType = getEnv("STORAGE_TYPE", "file")
	}

	switch storeType {
	case "mysql":
		log.Println("Using MySQL store with GORM")
		mysqlCfg := appConfig.Storage.MySQL

		portStr := ""
		if mysqlCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", mysqlCfg.Port)
		}

		store, err = storage.NewGormStore(
			getEnvOrConfig(mysqlCfg.Host, "DB_HOST", "mysql"),
			getEnvOrConfig(portStr, "DB_PORT", "3306"),
			getEnvOrConfig(mysqlCfg.User, "DB_USER", "realty_user"),
			getEnvOrConfig(mysqlCfg.Password, "DB_PASSWORD", "realty_pass"),
			getEnvOrConfig(mysqlCfg.Database, "DB_NAME", "realty_db"),
		)
		if err != nil {
			log.Fatalf("Failed to connect to MySQL: %v", err)
		}
	case "postgres":
		log.Println("Using PostgreSQL store")
		pgCfg := appConfig.Storage.Postgres

		portStr := ""
		if pgCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", pgCfg.Port)
		}

		store, err = storage.NewPostgresStore(
			getEnvOrConfig(pgCfg.Host, "DB_HOST", "db"),
			getEnvOrConfig(portStr, "DB_PORT", "5432"),
			getEnvOrConfig(pgCfg.User, "DB_USER", "realty_user"),
			getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "realty_pass"),
			getEnvOrConfig(pgCfg.Database, "DB_NAME", "realty_db"),
			pgCfg.SSLMode,
		)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
	default:
		path := getEnvOrConfig(appConfig.Storage.File.Path, "STORE_PATH", "data/properties.json")
		log.Printf("Using flat-file store at %s", path)
		store = storage.NewFileStore(path)
	}
	defer store.Close()

	// Initialize upload manager
	uploadsRoot := getEnvOrConfig(appConfig.Uploads.Root, "UPLOADS_ROOT", "public/uploads")
	uploadManager = uploads.NewManager(uploadsRoot, appConfig.Uploads.PublicBase)
	log.Printf("Upload manager rooted at %s (served from %s)", uploadsRoot, appConfig.Uploads.PublicBase)

	// Initialize optional Meilisearch index
	if appConfig.Search.Enabled {
		meiliHost := getEnvOrConfig(appConfig.Search.Meilisearch.Host, "MEILISEARCH_HOST", "http://meilisearch:7700")
		meiliKey := getEnvOrConfig(appConfig.Search.Meilisearch.APIKey, "MEILISEARCH_KEY", "")

		searchClient = search.NewClient(meiliHost, meiliKey)

		// Wait for Meilisearch to be ready
		time.Sleep(2 * time.Second)

		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	}

	repo = repository.New(store, uploadManager, searchClient)

	// Reindex existing records so search and store stay aligned on boot
	if searchClient != nil {
		if properties, err := repo.GetAll(); err != nil {
			log.Printf("Warning: Failed to load properties for reindex: %v", err)
		} else if err := searchClient.IndexProperties(properties); err != nil {
			log.Printf("Warning: Failed to reindex properties: %v", err)
		}
	}

	// Initialize rate limiter for mutating routes
	rateLimiter = ratelimit.NewLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.Enabled,
	)
	log.Printf("Rate limiter initialized: %d req/min, %d req/hour (enabled: %v)",
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.Enabled,
	)

	// Initialize cleanup service and scheduler
	cleanupService = cleanup.NewService(store, uploadsRoot)
	appScheduler = scheduler.NewScheduler(cleanupService, appConfig)
	if err := appScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer appScheduler.Stop()

	// Setup Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	propertyHandler := handlers.NewPropertyHandler(repo, searchClient)
	adminHandler := handlers.NewAdminHandler(repo, cleanupService, uploadsRoot)

	// Routes
	r.GET("/health", healthCheck)

	r.GET("/api/properties", propertyHandler.List)
	r.GET("/api/properties/featured", propertyHandler.GetFeatured)
	r.GET("/api/properties/:id", propertyHandler.Get)

	// Mutating routes carry uploads and sit behind the rate limiter
	r.POST("/api/properties", rateLimitMiddleware(), propertyHandler.Create)
	r.PUT("/api/properties/:id", rateLimitMiddleware(), propertyHandler.Update)
	r.DELETE("/api/properties/:id", rateLimitMiddleware(), propertyHandler.Delete)

	r.GET("/api/search", propertyHandler.Search)
	r.GET("/api/ratelimit/stats", getRateLimitStats)

	// Uploaded media is served straight from disk
	r.Static(appConfig.Uploads.PublicBase, uploadsRoot)

	// Admin API routes (requires authentication in production)
	admin := r.Group("/api/admin")
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/activity", adminHandler.GetRecentActivity)
		admin.POST("/cleanup/run", adminHandler.RunCleanup)
	}

	port := getEnvOrConfig(appConfig.Server.Port, "PORT", "8080")
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rateLimiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded, try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func getRateLimitStats(c *gin.Context) {
	c.JSON(http.StatusOK, rateLimiter.GetStats())
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvOrConfig prefers the config value, then the env var, then a default
func getEnvOrConfig(configValue, envKey, fallback string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, fallback)
}

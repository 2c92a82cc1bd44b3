package main

import (
	"log"
	"net/http"

	"staffdesk/shared/config"
	"staffdesk/shared/database"
	"staffdesk/shared/utils/cache"
	"staffdesk/user-service/handlers"

	_ "staffdesk/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Seed reference data
	if err := database.SeedDatabase(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Redis is optional; handlers fall back to the database on cache misses
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("Warning: cache disabled: %v", err)
	}

	router := gin.Default()

	// CORS for the browser admin frontend
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	router.Use(cors.New(corsConfig))

	// User routes
	router.GET("/api/users", handlers.GetUsers)
	router.GET("/api/users/:id", handlers.GetUser)
	router.POST("/api/users", handlers.CreateUser)
	router.PUT("/api/users/:id", handlers.UpdateUser)

	// Department routes
	router.GET("/api/departments", handlers.GetDepartments)

	// Stored files
	router.GET("/uploads/*filepath", handlers.ServeUpload)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "users",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Printf("User Service starting on %s...", cfg.ServerAddress)
	router.Run(cfg.ServerAddress)
}

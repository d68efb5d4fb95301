package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/hirelink/backend/config"
	"github.com/hirelink/backend/internal/auth"
	"github.com/hirelink/backend/internal/cache"
	"github.com/hirelink/backend/internal/database"
	"github.com/hirelink/backend/internal/handlers"
	"github.com/hirelink/backend/internal/messaging"
	"github.com/hirelink/backend/internal/middleware"
	"github.com/hirelink/backend/internal/models"
	"github.com/hirelink/backend/internal/moderation"
	"github.com/hirelink/backend/internal/repository"
	"github.com/hirelink/backend/internal/risk"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	log.Println("Running database migrations...")
	if err := database.RunMigrations(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Connect to Redis
	redis, err := cache.NewRedisClient(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		log.Println("Running without Redis - notifications and shared rate limits are disabled")
		redis = nil
	} else {
		defer redis.Close()
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	modRepo := repository.NewModerationRepository(db)

	// Risk screening runs synchronously inside the send path.
	analyzer := risk.NewAnalyzer(risk.DefaultRules())

	var msgEvents messaging.EventPublisher
	var modEvents moderation.EventPublisher
	if redis != nil {
		msgEvents = redis
		modEvents = redis
	}

	messagingService := messaging.NewService(convRepo, msgRepo, analyzer, msgEvents)
	moderationService := moderation.NewService(convRepo, modRepo, modEvents)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtService)
	convHandler := handlers.NewConversationHandler(messagingService, moderationService)
	msgHandler := handlers.NewMessageHandler(messagingService)

	// Initialize rate limiters: a general per-user limiter for the whole API
	// group, and a stricter shared-budget limiter on the send paths.
	apiLimiter := middleware.NewRateLimiter(cfg.API.RateLimitRequestsPerSec)
	apiLimiter.Cleanup()
	sendLimiter := middleware.NewRateLimiter(cfg.API.RateLimitMessagesPerSec)
	sendLimiter.Cleanup()
	sendLimit := middleware.SendRateLimitMiddleware(redis, sendLimiter, cfg.API.RateLimitMessagesPerSec)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Protected routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(apiLimiter))
	{
		// User routes
		api.GET("/me", authHandler.Me)

		// Conversation routes
		api.GET("/conversations", convHandler.ListConversations)
		api.POST("/conversations", middleware.RequireRole(models.RoleRecruiter), convHandler.CreateConversation)
		api.GET("/conversations/:id", convHandler.GetConversation)
		api.PUT("/conversations/:id/read", convHandler.MarkRead)

		// Moderation routes
		api.POST("/conversations/:id/report", convHandler.Report)
		api.POST("/conversations/:id/resolve", middleware.RequireRole(models.RoleAdmin), convHandler.Resolve)
		api.GET("/conversations/:id/moderation", middleware.RequireRole(models.RoleAdmin), convHandler.ModerationHistory)

		// Message routes
		api.GET("/messages", msgHandler.GetMessages)
		api.GET("/messages/unread", msgHandler.GetUnreadSummary)
		api.POST("/messages", sendLimit, msgHandler.SendMessage)
		api.POST("/messages/file", sendLimit, msgHandler.SendFile)
	}

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Starting HireLink messaging server on %s (env: %s)", addr, cfg.Server.Env)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-app/config"
	"social-app/internal/controllers"
	"social-app/internal/images"
	"social-app/internal/kafka"
	"social-app/internal/notifications"
	"social-app/internal/redis"
	"social-app/internal/repositories"
	"social-app/internal/services"
	"social-app/internal/websocket"
	"social-app/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()
	metrics := config.GetMetrics()

	// Initialize MongoDB
	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(100).
		SetSocketTimeout(10 * time.Second)
	if cfg.MongoUser != "" {
		clientOptions = clientOptions.SetAuth(options.Credential{
			Username: cfg.MongoUser,
			Password: cfg.MongoPassword,
		})
	}

	mongoClient, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.DBName)

	// Initialize Redis Cluster
	redisClient := redis.NewClusterClient(cfg)
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}()

	// Initialize Repositories
	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	friendshipRepo := repositories.NewFriendshipRepository(db)
	chatRepo := repositories.NewChatRepository(db)

	// Image store
	imageStore := images.NewHTTPStore(cfg.ImageStoreURL)

	// Kafka producer
	producer := kafka.NewEventProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if err := producer.Close(); err != nil {
			log.Printf("Error closing Kafka producer: %v", err)
		}
	}()

	// WebSocket hub and Kafka consumer
	hub := websocket.NewHub(redisClient)
	go hub.Run()

	consumer := kafka.NewEventConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, "realtime-events", hub)
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	go consumer.Start(consumerCtx)
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Printf("Error closing Kafka consumer: %v", err)
		}
	}()

	// Initialize Services
	gate := services.NewSocialGate(friendshipRepo, chatRepo)
	userService := services.NewUserService(userRepo)
	feedService := services.NewFeedService(postRepo, imageStore)
	reactionService := services.NewReactionService(postRepo, userRepo, notificationRepo, imageStore, producer)
	friendshipService := services.NewFriendshipService(friendshipRepo, userRepo, notificationRepo, producer)
	chatService := services.NewChatService(chatRepo, userRepo, gate, producer)
	notificationService := notifications.NewService(notificationRepo, postRepo)

	// Initialize Controllers
	userController := controllers.NewUserController(userService, cfg, redisClient)
	feedController := controllers.NewFeedController(feedService, reactionService)
	friendshipController := controllers.NewFriendshipController(friendshipService)
	notificationController := controllers.NewNotificationController(notificationService)
	chatController := controllers.NewChatController(chatService)

	// Initialize Gin Router with metrics middleware
	router := gin.Default()
	router.Use(config.MetricsMiddleware(metrics))

	// WebSocket router (without metrics middleware)
	webSocketRouter := gin.Default()

	// Start metrics server on separate port
	go func() {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", config.MetricsHandler())

		metricsServer := &http.Server{
			Addr:    ":" + cfg.PrometheusPort,
			Handler: metricsMux,
		}

		log.Printf("Metrics server starting on port %s", cfg.PrometheusPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Metrics server failed: %v", err)
		}
	}()

	// Health check endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ready"}
		code := http.StatusOK

		if err := mongoClient.Ping(ctx, nil); err != nil {
			status["mongo"] = "unavailable"
			code = http.StatusServiceUnavailable
		} else {
			status["mongo"] = "available"
		}

		if !redisClient.IsAvailable(ctx) {
			status["redis"] = "unavailable"
			code = http.StatusServiceUnavailable
		} else {
			status["redis"] = "available"
		}

		c.JSON(code, status)
	})

	// Open routes
	router.POST("/api/users", userController.Register)

	// Protected routes
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, redisClient)
	api := router.Group("/api", authMiddleware)
	{
		// User endpoints
		api.POST("/auth/logout", userController.Logout)
		api.GET("/profile", userController.Me)
		api.GET("/users/:id", userController.GetUser)
		api.GET("/users", userController.Search)

		// Feed endpoints
		api.POST("/posts", feedController.CreatePost)
		api.GET("/posts", feedController.ListPosts)
		api.GET("/posts/:id", feedController.GetPost)
		api.DELETE("/posts/:id", feedController.DeletePost)
		api.POST("/posts/:id/likes", feedController.LikePost)
		api.DELETE("/posts/:id/likes", feedController.UnlikePost)

		// Comment endpoints
		api.POST("/posts/:id/comments", feedController.AddComment)
		api.PUT("/posts/:id/comments/:commentID", feedController.EditComment)
		api.DELETE("/posts/:id/comments/:commentID", feedController.DeleteComment)
		api.POST("/posts/:id/comments/:commentID/likes", feedController.LikeComment)
		api.DELETE("/posts/:id/comments/:commentID/likes", feedController.UnlikeComment)

		// Reply endpoints
		api.POST("/posts/:id/comments/:commentID/replies", feedController.AddReply)
		api.PUT("/posts/:id/comments/:commentID/replies/:replyID", feedController.EditReply)
		api.DELETE("/posts/:id/comments/:commentID/replies/:replyID", feedController.DeleteReply)
		api.POST("/posts/:id/comments/:commentID/replies/:replyID/likes", feedController.LikeReply)
		api.DELETE("/posts/:id/comments/:commentID/replies/:replyID/likes", feedController.UnlikeReply)

		// Friendship endpoints
		api.POST("/friends/requests/:userID", friendshipController.SendRequest)
		api.POST("/friends/requests/:userID/accept", friendshipController.AcceptRequest)
		api.DELETE("/friends/requests/:userID/decline", friendshipController.DeclineRequest)
		api.DELETE("/friends/requests/:userID", friendshipController.CancelRequest)
		api.GET("/friends/requests", friendshipController.ListRequests)
		api.DELETE("/friendships/:userID", friendshipController.RemoveFriend)

		// Notification endpoints
		api.GET("/notifications", notificationController.List)
		api.GET("/notifications/count", notificationController.Count)
		api.POST("/notifications/read", notificationController.MarkRead)
		api.POST("/notifications/clear", notificationController.Clear)

		// Chat endpoints
		api.POST("/chats/direct/:userID", chatController.SendDirectMessage)
		api.GET("/chats/:id", chatController.GetChat)
		api.POST("/chatrooms", chatController.CreateRoom)
		api.GET("/chatrooms/:id", chatController.GetRoom)
		api.POST("/chatrooms/:id/messages", chatController.SendRoomMessage)
		api.POST("/chatrooms/:id/members", chatController.AddRoomMember)
		api.DELETE("/chatrooms/:id/members", chatController.RemoveRoomMember)
		api.POST("/chatrooms/:id/leave", chatController.LeaveRoom)
		api.GET("/inbox/unread", chatController.UnreadCount)
		api.POST("/inbox/read", chatController.MarkInboxRead)
	}

	webSocketRouter.GET("/ws", func(c *gin.Context) {
		userID, err := middleware.ValidateToken(c.GetHeader("Authorization"), cfg.JWTSecret, redisClient)
		if err != nil {
			userID, err = middleware.ValidateToken(c.Query("token"), cfg.JWTSecret, redisClient)
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		websocket.ServeWs(hub, c.Writer, c.Request, userID)
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// Start WebSocket server
	wsServer := &http.Server{
		Addr:    ":" + cfg.WebSocketPort,
		Handler: webSocketRouter,
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("HTTP server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	go func() {
		log.Printf("WebSocket server listening on %s", wsServer.Addr)
		if err := wsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("WebSocket server error: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("WebSocket server shutdown error: %v", err)
	}

	log.Println("Server exited properly")
}

package main

import (
	"log"

	"quizmaster/config"
	"quizmaster/handlers"
	"quizmaster/messaging"
	"quizmaster/middleware"
	"quizmaster/models"
	"quizmaster/routes"
	"quizmaster/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Redis and RabbitMQ are optional; without them the cache and events are off.
	var cache services.QuizCache
	redisClient, err := config.InitRedis(&cfg.Redis)
	if err != nil {
		log.Printf("Redis unavailable, quiz cache disabled: %v", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		cache = services.NewRedisQuizCache(redisClient, cfg.Redis.CacheTTL)
	}

	var events services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mq, err := messaging.NewRabbitMQClient(cfg.RabbitMQ.URL)
		if err != nil {
			log.Printf("RabbitMQ unavailable, events disabled: %v", err)
		} else {
			defer mq.Close()
			events = mq
		}
	}

	if cfg.AI.APIKey == "" {
		log.Println("AI_API_KEY not set, quiz generation will fail")
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize services
	quizService := services.NewQuizService(db, cache, events)
	scoreService := services.NewScoreService(db, events, hub)
	aiService := services.NewAIGenerateService(cfg.AI.APIKey, cfg.AI.APIURL, cfg.AI.Model, cfg.AI.Timeout)

	// Initialize handlers
	h := routes.Handlers{
		Quiz:   handlers.NewQuizHandler(quizService, cfg.DebugErrors),
		Score:  handlers.NewScoreHandler(scoreService, cfg.DebugErrors),
		AI:     handlers.NewAIGenerateHandler(aiService, cfg.DebugErrors),
		Health: handlers.NewHealthHandler(quizService, cfg.DebugErrors),
	}

	router := gin.Default()
	router.Use(middleware.CORS(cfg.FrontendOrigin))

	routes.SetupRoutes(router, h, hub, scoreService, cfg.FrontendOrigin)

	log.Printf("Server starting on %s", cfg.Addr())
	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

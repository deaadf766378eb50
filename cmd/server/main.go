package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"corgi/internal/auth"
	"corgi/internal/candidates"
	"corgi/internal/config"
	"corgi/internal/database"
	"corgi/internal/handlers"
	"corgi/internal/history"
	"corgi/internal/identity"
	"corgi/internal/timeline"
	"corgi/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	// Connect to database
	db, err := database.Connect(database.LoadConfig())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize and start background workers
	workerService := worker.NewService(db, cfg)
	if err := workerService.Start(); err != nil {
		log.Fatal("Failed to start background workers:", err)
	}

	setupGracefulShutdown(workerService, db)

	setupServer(db, cfg, workerService)
}

func setupGracefulShutdown(workerService *worker.Service, db *gorm.DB) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")

		workerService.Stop()
		database.Close(db)

		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}

func setupServer(db *gorm.DB, cfg *config.Config, workerService *worker.Service) {
	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Wire the timeline assembly pipeline
	verifier := auth.NewLinkTokenVerifier(cfg.LinkTokenSecret)
	resolver := identity.NewResolver(db, verifier)
	historyStore := history.NewGormStore(db)
	pool := candidates.NewGormPool(db)
	coldStart := candidates.NewColdStart(pool, cfg)
	selector := candidates.NewSelector(historyStore, pool, coldStart, cfg)
	fetcher := timeline.NewFetcher(cfg.UpstreamTimeout)
	merger := timeline.NewMerger(cfg.InjectionSpacing)
	timelineService := timeline.NewService(resolver, fetcher, selector, coldStart, merger, cfg)

	timelineHandler := handlers.NewTimelineHandler(timelineService, workerService, cfg)
	interactionsHandler := handlers.NewInteractionsHandler(historyStore, resolver)
	docsHandler := handlers.NewDocsHandler()

	// Health check
	r.GET("/health", timelineHandler.HealthCheck)

	// Timeline endpoints: the first is the proxy's own surface, the
	// second lets Mastodon clients point straight at the proxy.
	r.GET("/timeline", timelineHandler.GetHomeTimeline)
	r.GET("/api/v1/timelines/home", timelineHandler.GetHomeTimeline)

	// Serve Markdown documentation as HTML
	r.GET("/doc/:doc", docsHandler.ServeMarkdownAsHTML)

	// API routes
	api := r.Group("/api")
	{
		api.POST("/interactions", interactionsHandler.Record)

		workerGroup := api.Group("/worker")
		{
			workerGroup.GET("/status", timelineHandler.WorkerStatus)
		}
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

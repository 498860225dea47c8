package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deividastamosaitis/objektai/config"
	"github.com/deividastamosaitis/objektai/handler"
	"github.com/deividastamosaitis/objektai/middleware"
	"github.com/deividastamosaitis/objektai/pkg/logger"
	"github.com/deividastamosaitis/objektai/service"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := service.ConnectMongo(ctx, &cfg.Mongo)
	if err != nil {
		slog.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	if err := service.EnsureIndexes(ctx, db); err != nil {
		slog.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	// Media storage
	mediaSvc, err := service.NewMediaService(&cfg.Minio)
	if err != nil {
		slog.Error("failed to initialize media storage", "error", err)
		os.Exit(1)
	}
	if err := mediaSvc.EnsureBucket(ctx); err != nil {
		slog.Error("failed to ensure media bucket", "error", err)
		os.Exit(1)
	}

	// Headless browser for contract PDFs
	renderer, err := service.NewChromiumRenderer(&cfg.Renderer)
	if err != nil {
		slog.Error("failed to start pdf renderer", "error", err)
		os.Exit(1)
	}

	// Stores and services
	jobStore := service.NewJobStore(db)
	contractStore := service.NewContractStore(db)
	userStore := service.NewUserStore(db)
	reminderStore := service.NewReminderStore(db)
	workLogStore := service.NewWorkLogStore(db)
	contractSvc := service.NewContractService(contractStore, renderer, &cfg.Uploads, &cfg.Public)

	// Reminder e-mails go out once a minute.
	sweeper := service.NewReminderSweeper(reminderStore, service.NewSMTPMailer(&cfg.Mail), time.Minute)
	sweeper.Start(ctx)

	// Handlers
	authHandler := handler.NewAuthHandler(userStore, cfg)
	userHandler := handler.NewUserHandler(userStore)
	jobHandler := handler.NewJobHandler(jobStore, mediaSvc)
	contractHandler := handler.NewContractHandler(contractSvc)
	publicHandler := handler.NewPublicHandler(contractSvc)
	reminderHandler := handler.NewReminderHandler(reminderStore)
	workLogHandler := handler.NewWorkLogHandler(workLogStore)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Cap uploads at the configured size. MaxMultipartMemory only bounds
	// in-memory buffering, so the body reader is capped as well.
	maxUploadBytes := cfg.Uploads.MaxUploadMB << 20
	router.MaxMultipartMemory = maxUploadBytes

	// Add custom middleware
	router.Use(middleware.RequestID())     // Request ID for tracing
	router.Use(middleware.Recovery())      // Panic recovery
	router.Use(middleware.RequestLogger()) // Access logging
	router.Use(middleware.BodyLimit(maxUploadBytes))
	router.Use(corsMiddleware(cfg.Public.AppOrigin))

	// Signed PDFs and other uploaded artifacts
	router.Static("/uploads", cfg.Uploads.Dir)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api/v1")

	// Public routes. The signing page is reachable without a session, so it
	// gets its own rate limit.
	public := api.Group("/")
	public.Use(middleware.RateLimit(30, time.Minute))
	{
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)
		public.GET("/auth/logout", authHandler.Logout)
		public.GET("/sutartys/public/:token", publicHandler.GetContract)
		public.POST("/sutartys/public/:token/sign", publicHandler.Sign)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.GET("/users/current", userHandler.Current)
		protected.PATCH("/users/update", userHandler.Update)

		protected.GET("/jobs", jobHandler.List)
		protected.POST("/jobs", jobHandler.Create)
		protected.GET("/jobs/:id", jobHandler.Get)
		protected.PATCH("/jobs/:id", jobHandler.Update)
		protected.DELETE("/jobs/:id", jobHandler.Delete)
		protected.PATCH("/jobs/:id/montavimas", jobHandler.SaveInstallation)
		protected.GET("/jobs/:id/montavimas/export", jobHandler.ExportInstallation)

		protected.POST("/sutartys", contractHandler.Create)
		protected.GET("/sutartys", contractHandler.List)

		protected.GET("/reminders", reminderHandler.List)
		protected.POST("/reminders", reminderHandler.Create)

		protected.GET("/darbai", workLogHandler.List)
		protected.POST("/darbai", workLogHandler.Create)
		protected.PATCH("/darbai/:id", workLogHandler.Update)
		protected.PATCH("/darbai/:id/done", workLogHandler.ToggleDone)
		protected.DELETE("/darbai/:id", workLogHandler.Delete)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	sweeper.Stop()
	if err := renderer.Close(); err != nil {
		slog.Error("failed to stop pdf renderer", "error", err)
	}
	if err := db.Client().Disconnect(shutdownCtx); err != nil {
		slog.Error("failed to disconnect mongodb", "error", err)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware allows the web client's origin and the headers it sends.
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

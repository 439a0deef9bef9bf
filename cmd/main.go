package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pairup/internal/auth"
	"pairup/internal/config"
	"pairup/internal/database"
	"pairup/internal/handlers"
	"pairup/internal/jobs"
	"pairup/internal/repository"
	"pairup/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repository
	repo := repository.NewRepository(database.GetDB())

	// Initialize services
	inviteService := services.NewInviteService(database.GetDB(), cfg.Invites.DefaultMaxUses, cfg.Invites.CodeLength)
	authService := services.NewAuthService(database.GetDB(), inviteService)
	userService := services.NewUserService(database.GetDB())
	exclusionService := services.NewExclusionService(database.GetDB())
	partnershipService := services.NewPartnershipService(repo)
	matchingService := services.NewMatchingService(repo, partnershipService, exclusionService, cfg.Matching.PartnershipMonths, nil)
	reportService := services.NewReportService(database.GetDB())
	adminService := services.NewAdminService(database.GetDB())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	partnershipHandler := handlers.NewPartnershipHandler(partnershipService)
	exclusionHandler := handlers.NewExclusionHandler(exclusionService)
	reportHandler := handlers.NewReportHandler(reportService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	adminHandler := handlers.NewAdminHandler(adminService, matchingService, partnershipService, inviteService, reportService, userService)

	// Start partnership sweeper job
	sweeper := jobs.NewPartnershipSweeper(partnershipService, cfg.Matching.SweepInterval)
	go sweeper.Start()
	log.Println("Partnership sweeper job started")

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000", // Local development
		"http://localhost:3001",
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:3001",
		"http://127.0.0.1:5173",
	}
	// Add additional frontend URL from environment if provided
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Public invite verification, used by the registration form
	router.GET("/api/invites/verify", inviteHandler.Verify)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// User endpoints
		userRoutes := api.Group("/user")
		{
			userRoutes.GET("", userHandler.GetProfile)
			userRoutes.PUT("/display-name", userHandler.UpdateDisplayName)
			userRoutes.PUT("/match-category", userHandler.UpdateMatchCategory)
			userRoutes.PUT("/active", userHandler.SetActive)
		}

		// Partnership endpoints
		api.GET("/partnership", partnershipHandler.GetActive)
		api.GET("/partnership/history", partnershipHandler.GetHistory)
		api.POST("/partnership/:id/end-early", partnershipHandler.EndEarly)

		// Exclusion endpoints
		api.GET("/exclusions", exclusionHandler.List)
		api.POST("/exclusions", exclusionHandler.Add)
		api.DELETE("/exclusions/:id", exclusionHandler.Remove)

		// Report endpoints
		api.POST("/reports", reportHandler.File)
		api.GET("/reports", reportHandler.ListOwn)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.AdminMiddleware())
	{
		admin.GET("/dashboard", adminHandler.GetDashboard)
		admin.GET("/stats", adminHandler.GetPlatformStats)
		admin.GET("/logs", adminHandler.GetLogs)

		// Matching
		admin.POST("/matching/run", adminHandler.RunMatching)

		// Partnership management
		admin.POST("/partnerships/sweep", adminHandler.SweepPartnerships)
		admin.GET("/partnerships/active", adminHandler.GetActivePartnerships)
		admin.POST("/partnerships/:id/cancel", adminHandler.CancelPartnership)
		admin.POST("/partnerships/:id/complete", adminHandler.CompletePartnership)

		// Invite management
		admin.POST("/invites", adminHandler.IssueInvite)
		admin.GET("/invites", adminHandler.ListInvites)
		admin.POST("/invites/:code/deactivate", adminHandler.DeactivateInvite)

		// Report triage
		admin.GET("/reports", adminHandler.ListReports)
		admin.POST("/reports/:id/transition", adminHandler.TransitionReport)

		// User management
		admin.GET("/users", adminHandler.GetUsers)
		admin.POST("/users/:id/deactivate", adminHandler.DeactivateUser)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	sweeper.Stop()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lingoloop/internal/config"
	"lingoloop/internal/database"
	"lingoloop/internal/handlers"
	"lingoloop/internal/repository"
	"lingoloop/internal/scheduler"
	"lingoloop/internal/security"
	"lingoloop/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Initialize services
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenDuration)
	authService := service.NewAuthService(userRepo, tokens)
	reviewService := service.NewReviewService(reviewRepo, schedulerParams(cfg))

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	reminderService := service.NewReminderService(reviewRepo, emailService, cfg.ReminderStartHour, cfg.ReminderEndHour)
	reminderService.Start()
	defer reminderService.Stop()

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, security.NewRateLimiter(10, time.Minute))
	authHandler := handlers.NewAuthHandler(authService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/login", middleware.RateLimit(authHandler.Login))

	// Protected routes
	mux.HandleFunc("POST /api/review/items", middleware.RequireAuth(reviewHandler.SaveItem))
	mux.HandleFunc("GET /api/review/due", middleware.RequireAuth(reviewHandler.GetDue))
	mux.HandleFunc("POST /api/review/items/{id}/grade", middleware.RequireAuth(reviewHandler.SubmitGrade))
	mux.HandleFunc("PUT /api/account/reminders", middleware.RequireAuth(authHandler.SetReminders))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// schedulerParams applies the config's tuning knobs on top of the defaults
func schedulerParams(cfg *config.Config) scheduler.Params {
	params := scheduler.DefaultParams()
	params.BaseInterval = time.Duration(cfg.BaseIntervalMinutes) * time.Minute
	params.MaxGeometricInterval = time.Duration(cfg.GeometricMaxIntervalMin) * time.Minute
	params.TargetRetention = cfg.TargetRetention
	params.MaxIntervalDays = cfg.MaxIntervalDays
	return params
}

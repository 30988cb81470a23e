package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meridian-studio/contact-backend/src/config"
	"github.com/meridian-studio/contact-backend/src/database"
	"github.com/meridian-studio/contact-backend/src/handlers"
	"github.com/meridian-studio/contact-backend/src/logging"
	"github.com/meridian-studio/contact-backend/src/middleware"
	"github.com/meridian-studio/contact-backend/src/models"
	"github.com/meridian-studio/contact-backend/src/repositories"
	"github.com/meridian-studio/contact-backend/src/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize structured logging
	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	log.Info().
		Int("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Msg("starting server")

	if cfg.JWTSecretIsDevOnly {
		log.Warn().Msg("JWT_SECRET not set - using the built-in development secret; tokens are forgeable, never run like this in production")
	}

	handlers.SetVerboseErrors(!cfg.IsProduction())

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	log.Info().Msg("database connected")

	// Initialize repositories and services
	adminRepo := repositories.NewPgxAdminRepository(db.Pool())
	contactRepo := repositories.NewPgxContactRepository(db.Pool())

	adminService := services.NewAdminService(adminRepo)
	tokenService, err := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}

	guardService := services.NewGuardService(contactRepo, services.GuardConfig{
		DuplicateWindow:    cfg.DuplicateWindow,
		ContactQuota:       cfg.ContactQuota,
		ContactQuotaWindow: cfg.ContactQuotaWindow,
	})

	// Email is optional - missing credentials disable notifications rather
	// than failing requests
	var emailService *services.EmailService
	if cfg.MailgunAPIKey != "" && cfg.MailgunDomain != "" {
		emailService = services.NewEmailService(
			cfg.MailgunDomain,
			cfg.MailgunAPIKey,
			cfg.MailgunFromEmail,
			cfg.MailgunFromName,
		)
		log.Info().Str("domain", cfg.MailgunDomain).Msg("Mailgun email service initialized")
	} else {
		log.Warn().Msg("Mailgun credentials not configured - notification and reply emails disabled")
	}

	contactService := services.NewContactService(contactRepo, guardService, emailService, cfg.NotifyEmail)
	cleanupService := services.NewCleanupService(contactRepo, cfg.EnableAutoCleanup, cfg.RetentionDays)

	// Auto-seed super admin on first run (if ADMIN_USERNAME and ADMIN_PASSWORD are set)
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		admin, err := adminService.SeedSuperAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Error().Err(err).Msg("failed to create initial super admin")
		} else if admin != nil {
			log.Info().Str("username", admin.Username).Msg("initial super admin created")
		}
	}

	// Start background services
	cleanupService.Start(context.Background())

	// Create Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging())
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	setupRoutes(router, db, cfg, adminService, tokenService, contactService)

	// Create HTTP server with timeouts to protect from slow clients
	srv := &http.Server{
		Addr:              ":" + formatPort(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	cleanupService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server shut down successfully")
}

// corsConfig builds the CORS policy from the comma-separated allow list
func corsConfig(allowedOrigins string) cors.Config {
	origins := map[string]bool{
		"http://localhost":      true,
		"http://localhost:3000": true,
		"http://localhost:8080": true,
	}
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = true
		}
	}

	return cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return origins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func setupRoutes(router *gin.Engine, db *database.Database, cfg *config.Config, adminService *services.AdminService, tokenService *services.TokenService, contactService *services.ContactService) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(adminService, tokenService)
	contactHandler := handlers.NewContactHandler(contactService)

	requireAuth := middleware.AdminAuth(tokenService, adminService)
	requireSuperAdmin := middleware.RequireRole(models.RoleSuperAdmin)

	// Health check endpoints
	router.GET("/health", healthHandler.HandleHealth)
	router.GET("/ready", healthHandler.HandleReady)
	router.GET("/info", healthHandler.HandleInfo)

	// Broad per-IP API quota across the whole /api surface
	api := router.Group("/api")
	api.Use(middleware.NewAPIRateLimiter(middleware.RateLimitConfig{
		Requests: cfg.APIRatePerWindow,
		Window:   cfg.APIRateWindow,
	}))

	// Admin authentication endpoints
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.HandleLogin)
	auth.POST("/register", requireAuth, requireSuperAdmin, authHandler.HandleRegister)
	auth.GET("/me", requireAuth, authHandler.HandleMe)
	auth.PUT("/change-password", requireAuth, authHandler.HandleChangePassword)
	auth.POST("/logout", requireAuth, authHandler.HandleLogout)

	// Contact endpoints: public intake and stats, admin management
	contact := api.Group("/contact")
	contact.POST("", contactHandler.HandleSubmit)
	contact.GET("/stats", contactHandler.HandleStats)
	contact.GET("", requireAuth, contactHandler.HandleList)
	contact.GET("/export/csv", requireAuth, contactHandler.HandleExportCSV)
	contact.GET("/:id", requireAuth, contactHandler.HandleGet)
	contact.PUT("/:id", requireAuth, contactHandler.HandleUpdate)
	contact.DELETE("/:id", requireAuth, contactHandler.HandleDelete)
	contact.POST("/:id/reply", requireAuth, contactHandler.HandleReply)
}

func formatPort(port int) string {
	return fmt.Sprintf("%d", port)
}

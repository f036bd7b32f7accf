package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/popupcity/portal_api/internal/cache"
	"github.com/popupcity/portal_api/internal/config"
	"github.com/popupcity/portal_api/internal/database"
	"github.com/popupcity/portal_api/internal/handler"
	"github.com/popupcity/portal_api/internal/middleware"
	"github.com/popupcity/portal_api/internal/repository"
	"github.com/popupcity/portal_api/internal/service"
	"github.com/popupcity/portal_api/internal/utils"
	"github.com/popupcity/portal_api/internal/worker"
)

// main is the application entrypoint for the popup city portal API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting portal api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.Migrate(db.DB, "migrations"); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize caches
	loginCodes := cache.NewLoginCodeCache(redisClient, cfg.Auth.LoginCodeTTL)
	catalogCache := cache.NewCatalogCache(redisClient, cfg.Catalog.CacheTTL)

	// 4. Initialize repositories
	citizenRepo := repository.NewCitizenRepository(db)
	popupRepo := repository.NewPopupRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	attendeeRepo := repository.NewAttendeeRepository(db)
	productRepo := repository.NewProductRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// 5. Initialize services
	jwtManager := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	mailer := service.NewMailer(&cfg.Mail)
	authSvc := service.NewAuthService(citizenRepo, loginCodes, mailer, jwtManager, cfg.Auth.MagicLinkBaseURL)
	popupSvc := service.NewPopupService(popupRepo)
	appSvc := service.NewApplicationService(appRepo, attendeeRepo, citizenRepo, popupRepo)
	attendeeSvc := service.NewAttendeeService(appSvc, attendeeRepo)
	catalogSvc := service.NewCatalogService(productRepo, catalogCache)
	passSvc := service.NewPassService(appSvc, attendeeRepo, catalogSvc)
	couponSvc := service.NewCouponService(couponRepo, appRepo)
	paymentSvc := service.NewPaymentService(paymentRepo, passSvc, couponSvc, &cfg.Payment)

	// 6. Initialize middleware
	authLimiter := middleware.NewInvalidAuthRateLimiter(5, time.Minute)
	defer authLimiter.Stop()
	jwtMw := middleware.NewJWTMiddleware(jwtManager, authLimiter)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:      handler.NewHealthHandler(db, handler.PingFunc(redisClient.Ping)),
		Auth:        handler.NewAuthHandler(authSvc, authLimiter),
		Popup:       handler.NewPopupHandler(popupSvc),
		Application: handler.NewApplicationHandler(appSvc, attendeeSvc),
		Pass:        handler.NewPassHandler(passSvc, catalogSvc, couponSvc),
		Payment:     handler.NewPaymentHandler(paymentSvc),
	}

	// 8. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 9. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 10. Start workers
	go worker.NewPaymentExpiryWorker(paymentSvc, cfg.Worker.PaymentExpiryInterval, cfg.Payment.TTL).Start(ctx)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Popup       *handler.PopupHandler
	Application *handler.ApplicationHandler
	Pass        *handler.PassHandler
	Payment     *handler.PaymentHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	// Payment provider webhook
	router.POST("/webhook/payments", handlers.Payment.Webhook)

	router.GET("/v1/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Magic-link login
	auth := router.Group("/v1/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/authenticate", handlers.Auth.Authenticate)
	}

	// Public popup directory
	router.GET("/v1/popups", handlers.Popup.List)
	router.GET("/v1/popups/:slug", handlers.Popup.Get)

	// Citizen portal (JWT)
	portal := router.Group("/v1/portal")
	portal.Use(jwtMiddleware.Handle())
	{
		portal.GET("/me", handlers.Auth.Me)

		// Applications
		portal.GET("/applications", handlers.Application.List)
		portal.POST("/applications", handlers.Application.Save)
		portal.GET("/applications/import", handlers.Application.Import)
		portal.GET("/applications/:id", handlers.Application.Get)
		portal.POST("/applications/:id/submit", handlers.Application.Submit)

		// Attendees
		portal.POST("/applications/:id/attendees", handlers.Application.CreateAttendee)
		portal.PUT("/applications/:id/attendees/:attendeeId", handlers.Application.UpdateAttendee)
		portal.DELETE("/applications/:id/attendees/:attendeeId", handlers.Application.DeleteAttendee)

		// Catalog and passes
		portal.GET("/products", handlers.Pass.Products)
		portal.GET("/applications/:id/passes", handlers.Pass.Passes)
		portal.POST("/passes/toggle", handlers.Pass.Toggle)
		portal.POST("/passes/total", handlers.Pass.Total)
		portal.GET("/coupon-codes", handlers.Pass.Coupon)

		// Payments
		portal.POST("/payments", handlers.Payment.Create)
		portal.GET("/payments", handlers.Payment.List)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

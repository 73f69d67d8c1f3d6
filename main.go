// Package main provides the main entry point for the Silovra link-in-bio backend
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/silovra/silovra-backend/app/handlers"
	"github.com/silovra/silovra-backend/app/middleware"
	"github.com/silovra/silovra-backend/app/router"
	"github.com/silovra/silovra-backend/app/scheduler"
	"github.com/silovra/silovra-backend/app/services"
	businessflow "github.com/silovra/silovra-backend/business_flow"
	"github.com/silovra/silovra-backend/config"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Silovra application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// migrateDatabase applies the schema for every persisted model
func migrateDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.ProfileSession{},
		&models.Link{},
		&models.LinkGroup{},
		&models.LinkClick{},
		&models.Subscriber{},
		&models.Notification{},
		&models.PaymentEvent{},
	)
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig, password string) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB and password if provided in config
	opt.DB = cfg.RedisDB
	if password != "" {
		opt.Password = password
	}

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migrateDatabase(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	rc, err := initializeCache(cfg.Cache, cfg.Deployment.RedisPassword)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	sessionRepo := repository.NewProfileSessionRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	groupRepo := repository.NewLinkGroupRepository(db)
	clickRepo := repository.NewLinkClickRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	paymentEventRepo := repository.NewPaymentEventRepository(db)

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
		rc,
		cfg.Cache.RedisPrefix,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Initialize payment provider clients
	stripeClient := services.NewStripeClient(
		cfg.Stripe.BaseURL,
		cfg.Stripe.SecretKey,
		cfg.Stripe.WebhookSecret,
		cfg.Stripe.PriceID,
		cfg.Stripe.Timeout,
	)
	paypalClient := services.NewPayPalClient(
		cfg.PayPal.BaseURL,
		cfg.PayPal.ClientID,
		cfg.PayPal.ClientSecret,
		cfg.PayPal.Timeout,
	)
	nowClient := services.NewNOWPaymentsClient(
		cfg.NOWPayments.BaseURL,
		cfg.NOWPayments.APIKey,
		cfg.NOWPayments.IPNSecret,
		cfg.NOWPayments.Timeout,
	)

	// Initialize flows
	signupFlow := businessflow.NewSignupFlow(profileRepo, sessionRepo, tokenService, db)
	loginFlow := businessflow.NewLoginFlow(profileRepo, sessionRepo, tokenService, rc, &cfg.Cache, db)
	pageFlow := businessflow.NewPageFlow(profileRepo, linkRepo, groupRepo, notificationRepo, rc, &cfg.Cache)
	clickFlow := businessflow.NewClickFlow(linkRepo, clickRepo, notificationRepo)
	linkFlow := businessflow.NewLinkFlow(profileRepo, linkRepo, groupRepo, rc, &cfg.Cache, db)
	groupFlow := businessflow.NewGroupFlow(profileRepo, groupRepo, linkRepo, rc, &cfg.Cache, db)
	profileFlow := businessflow.NewProfileFlow(profileRepo, sessionRepo, rc, &cfg.Cache, db)
	subscriberFlow := businessflow.NewSubscriberFlow(profileRepo, subscriberRepo, notificationRepo)
	notificationFlow := businessflow.NewNotificationFlow(notificationRepo)
	analyticsFlow := businessflow.NewAnalyticsFlow(profileRepo, linkRepo, clickRepo)
	stripeFlow := businessflow.NewStripePaymentFlow(profileRepo, paymentEventRepo, notificationRepo, stripeClient, &cfg.Payment, db)
	paypalFlow := businessflow.NewPayPalPaymentFlow(profileRepo, paymentEventRepo, notificationRepo, paypalClient, &cfg.Payment, db)
	cryptoFlow := businessflow.NewNOWPaymentsFlow(profileRepo, paymentEventRepo, notificationRepo, nowClient, &cfg.Payment, db)

	// Initialize handlers
	routerHandlers := router.Handlers{
		Auth:         handlers.NewAuthHandler(signupFlow, loginFlow),
		Page:         handlers.NewPageHandler(pageFlow, clickFlow, subscriberFlow, cfg.Deployment.FrontendURL),
		Link:         handlers.NewLinkHandler(linkFlow),
		Group:        handlers.NewGroupHandler(groupFlow),
		Profile:      handlers.NewProfileHandler(profileFlow, analyticsFlow),
		Subscriber:   handlers.NewSubscriberHandler(subscriberFlow),
		Notification: handlers.NewNotificationHandler(notificationFlow),
		Payment:      handlers.NewPaymentHandler(stripeFlow, paypalFlow, cryptoFlow),
	}

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(cfg, routerHandlers, authMiddleware)

	if cfg.Retention.Enabled {
		pruner := scheduler.NewRetentionScheduler(
			sessionRepo,
			clickRepo,
			log.Default(),
			cfg.Retention.Interval,
			cfg.Retention.SessionGrace,
			cfg.Retention.ClickRetention,
		)
		stopFuncs = append(stopFuncs, pruner.Start(context.Background()))
	}

	application := &Application{
		router:    appRouter,
		config:    cfg,
		server:    appRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/app/handlers"
	"github.com/silovra/silovra-backend/app/middleware"
	"github.com/silovra/silovra-backend/config"
	"github.com/silovra/silovra-backend/utils"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	Shutdown() error
	GetApp() *fiber.App
}

// Handlers bundles every handler the router mounts
type Handlers struct {
	Auth         handlers.AuthHandlerInterface
	Page         handlers.PageHandlerInterface
	Link         handlers.LinkHandlerInterface
	Group        handlers.GroupHandlerInterface
	Profile      handlers.ProfileHandlerInterface
	Subscriber   handlers.SubscriberHandlerInterface
	Notification handlers.NotificationHandlerInterface
	Payment      handlers.PaymentHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	cfg      *config.ProductionConfig
	h        Handlers
	authMw   *middleware.AuthMiddleware
	logPipes []io.Closer
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(cfg *config.ProductionConfig, h Handlers, authMw *middleware.AuthMiddleware) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Silovra API",
		ServerHeader: "Silovra",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ProxyHeader:  cfg.Server.ProxyHeader,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:    app,
		cfg:    cfg,
		h:      h,
		authMw: authMw,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	api := r.app.Group("/api")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	if r.cfg.Metrics.Enabled && r.cfg.Metrics.EnablePrometheus {
		r.app.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	// General rate limiting for all API routes (aligned with nginx)
	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/health"
		},
	}))

	// Visitor-facing routes. Clicks get their own rate limit so a hot page
	// does not eat the global budget.
	api.Get("/pages/:username", r.h.Page.GetPublicPage)
	api.Post("/subscribe/:username", r.h.Page.Subscribe)

	click := api.Group("/click")
	click.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.ClickRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))
	click.Get("/:linkId", r.h.Page.ClickRedirect)

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.AuthRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))

	auth.Post("/signup", r.h.Auth.Signup)
	auth.Post("/login", r.h.Auth.Login)
	auth.Post("/refresh", r.h.Auth.RefreshToken)
	auth.Get("/callback", r.h.Auth.Callback)
	auth.Post("/logout", r.authMw.Authenticate(), r.h.Auth.Logout)

	// Provider webhooks are authenticated by signature, not by session.
	// These paths are registered with the providers, renaming them breaks
	// delivery.
	api.Post("/stripe/webhook", r.h.Payment.StripeWebhook)
	api.Post("/webhooks/nowpayments", r.h.Payment.CryptoIPN)

	// Dashboard routes
	dashboard := api.Group("", r.authMw.Authenticate())

	dashboard.Get("/links", r.h.Link.ListLinks)
	dashboard.Post("/links", r.h.Link.CreateLink)
	dashboard.Put("/links/reorder", r.h.Link.ReorderLinks)
	dashboard.Patch("/links/:id", r.h.Link.UpdateLink)
	dashboard.Delete("/links/:id", r.h.Link.DeleteLink)

	dashboard.Get("/groups", r.h.Group.ListGroups)
	dashboard.Post("/groups", r.h.Group.CreateGroup)
	dashboard.Patch("/groups/:id", r.h.Group.UpdateGroup)
	dashboard.Delete("/groups/:id", r.h.Group.DeleteGroup)

	dashboard.Get("/profile", r.h.Profile.GetProfile)
	dashboard.Patch("/profile", r.h.Profile.UpdateProfile)
	dashboard.Post("/profile/password", r.h.Profile.ChangePassword)
	dashboard.Get("/analytics", r.h.Profile.GetAnalytics)

	dashboard.Get("/subscribers", r.h.Subscriber.ListSubscribers)
	dashboard.Get("/subscribers/export", r.h.Subscriber.ExportSubscribers)
	dashboard.Delete("/subscribers/:id", r.h.Subscriber.DeleteSubscriber)

	dashboard.Get("/notifications", r.h.Notification.ListNotifications)
	dashboard.Post("/notifications/read-all", r.h.Notification.MarkAllRead)
	dashboard.Post("/notifications/:id/read", r.h.Notification.MarkRead)

	dashboard.Post("/stripe/checkout", r.h.Payment.CreateCheckoutSession)
	dashboard.Post("/stripe/portal", r.h.Payment.CreatePortalSession)
	dashboard.Post("/paypal/create-order", r.h.Payment.CreatePayPalOrder)
	dashboard.Post("/paypal/capture", r.h.Payment.CapturePayPalOrder)
	dashboard.Get("/paypal/capture-return", r.h.Payment.CapturePayPalOrder)
	dashboard.Post("/nowpayments/invoice", r.h.Payment.CreateCryptoInvoice)
	dashboard.Get("/payments/status", r.h.Payment.GetBillingStatus)

	// Root-level alias so shared profile URLs work without the /api prefix.
	// Registered last, every earlier route wins the match.
	r.app.Get("/:username", r.h.Page.GetPublicPage)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    r.cfg.Security.XContentTypeOptions,
		XFrameOptions:         r.cfg.Security.XFrameOptions,
		HSTSMaxAge:            31536000, // 1 year
		ContentSecurityPolicy: r.cfg.Security.CSPPolicy,
		ReferrerPolicy:        r.cfg.Security.ReferrerPolicy,
		XDNSPrefetchControl:   "off",
		XDownloadOptions:      "noopen",
		XPermittedCrossDomain: "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.cfg.Security.AllowedOrigins,
		AllowMethods:     r.cfg.Security.AllowedMethods,
		AllowHeaders:     r.cfg.Security.AllowedHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: r.cfg.Security.AllowCredentials,
		MaxAge:           r.cfg.Security.CORSMaxAge,
	}))

	if r.cfg.Server.EnableCompression {
		r.app.Use(compress.New(compress.Config{
			Level: compress.LevelBestSpeed,
		}))
	}

	// Access logging middleware
	if r.cfg.Logging.EnableAccessLog {
		r.app.Use(logger.New(logger.Config{
			Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
			TimeFormat: time.RFC3339,
			TimeZone:   "UTC",
			Stream:     r.accessLogStream(),
			Next: func(c fiber.Ctx) bool {
				// Skip logging for health checks in production
				return c.Path() == "/api/health"
			},
		}))
	}

	// Request metrics middleware
	if r.cfg.Metrics.Enabled {
		r.app.Use(middleware.Metrics())
	}

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			// Log panic with request context
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// accessLogStream picks the access log destination. File outputs rotate
// through lumberjack so long-running deployments do not fill the disk.
func (r *FiberRouter) accessLogStream() io.Writer {
	switch r.cfg.Logging.Output {
	case "file":
		return r.rotatingAccessLog()
	case "both":
		return io.MultiWriter(os.Stdout, r.rotatingAccessLog())
	default:
		return os.Stdout
	}
}

func (r *FiberRouter) rotatingAccessLog() io.Writer {
	lj := &lumberjack.Logger{
		Filename:   r.cfg.Logging.AccessLogPath,
		MaxSize:    r.cfg.Logging.MaxSize,
		MaxBackups: r.cfg.Logging.MaxBackups,
		MaxAge:     r.cfg.Logging.MaxAge,
		Compress:   r.cfg.Logging.Compress,
	}
	r.logPipes = append(r.logPipes, lj)
	return lj
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// Shutdown stops the server and closes the log files
func (r *FiberRouter) Shutdown() error {
	err := r.app.Shutdown()
	for _, pipe := range r.logPipes {
		pipe.Close()
	}
	return err
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   r.cfg.Deployment.Version,
			"service":   "silovra-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// rateLimitReached is shared by every limiter group
func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

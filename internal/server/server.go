// Package server contains the HTTP handlers for the matchmaking API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clique/internal/config"
	"clique/internal/featureflags"
	"clique/internal/middleware"
	"clique/internal/models"
	"clique/internal/observability"
	"clique/internal/service"
	"clique/internal/store"
	"clique/internal/validation"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

const requestTimeout = 5 * time.Second

// redisPingTimeout bounds the informational Redis check in ReadinessCheck.
const redisPingTimeout = 250 * time.Millisecond

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          *store.Store
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	featureFlags   *featureflags.Manager

	users        *service.UserService
	discovery    *service.DiscoveryService
	swipes       *service.SwipeService
	matches      *service.MatchService
	chat         *service.ChatService
	availability *service.AvailabilityService
}

// NewServer creates a Server over an initialised store. redisClient may be
// nil, in which case rate limiting fails open.
func NewServer(cfg *config.Config, st *store.Store, redisClient *redis.Client) *Server {
	flags := featureflags.NewManager(cfg.FeatureFlags)
	s := &Server{
		config:         cfg,
		store:          st,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("clique-api"),
		featureFlags:   flags,
		users:          service.NewUserService(st),
		discovery:      service.NewDiscoveryService(st),
		swipes:         service.NewSwipeService(st, flags),
		matches:        service.NewMatchService(st),
		chat:           service.NewChatService(st),
		availability:   service.NewAvailabilityService(st, flags, validation.DefaultSlotPolicy()),
	}
	s.app = s.newApp()
	return s
}

// App returns the configured Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Clique API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			observability.GlobalLogger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}
	app.Use(middleware.Session())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit so error responses
	// still carry the headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.SessionHeader,
		MaxAge:       86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests, models.NewRateLimitedError())
		},
	}))
}

func (s *Server) rateLimit(resource string) fiber.Handler {
	return middleware.RateLimit(s.redis, middleware.RateLimitConfig{
		Env:      s.config.Env,
		Limit:    s.config.RateLimitPerMinute,
		Window:   time.Minute,
		Resource: resource,
	})
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/catalog", s.GetCatalog)
	api.Get("/feature-flags", s.GetFeatureFlags)

	api.Post("/users", s.rateLimit("signup"), s.Signup)
	api.Post("/session", s.rateLimit("login"), s.Login)
	api.Get("/me", s.GetMe)
	api.Get("/users/:id", s.GetUserProfile)

	api.Get("/discovery", s.GetDiscovery)
	api.Get("/discovery/next", s.GetNextCandidate)

	swipes := api.Group("/swipes")
	swipes.Post("/:id/like", s.rateLimit("swipe"), s.Like)
	swipes.Post("/:id/pass", s.rateLimit("swipe"), s.Pass)

	api.Get("/matches", s.GetMatches)
	api.Get("/appointments", s.GetAppointments)

	api.Get("/availability", s.GetAvailability)
	api.Put("/availability", s.rateLimit("availability"), s.PutAvailability)

	conversations := api.Group("/conversations")
	conversations.Get("/", s.GetInbox)
	conversations.Get("/:id/messages", s.GetMessages)
	conversations.Post("/:id/messages", s.rateLimit("message"), s.SendMessage)
	conversations.Get("/:id/schedule", s.GetSchedule)
	conversations.Post("/:id/selection", s.rateLimit("selection"), s.SelectSlot)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the document backend answers. Redis is
// optional and only reported in checks.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	storeStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		storeStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		pingCtx, pingCancel := context.WithTimeout(ctx, redisPingTimeout)
		if err := s.redis.Ping(pingCtx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
		pingCancel()
	}

	status := fiber.StatusOK
	overall := "healthy"
	if storeStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"store":   storeStatus,
			"backend": s.store.Backend(),
			"redis":   redisStatus,
		},
		"time": time.Now(),
	})
}

// Start subscribes to changes made by other processes and serves HTTP
// until Shutdown.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	if err := s.store.OnExternalChange(ctx, func(doc *models.Document) {
		observability.GlobalLogger.DebugContext(ctx, "document refreshed",
			slog.Int("users", len(doc.Users)),
			slog.Int("matches", len(doc.Matches)),
		)
	}); err != nil {
		observability.GlobalLogger.Warn("change subscription unavailable", slog.String("error", err.Error()))
	}

	observability.GlobalLogger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown stops the HTTP server and the change subscription.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		observability.GlobalLogger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		return err
	}
	observability.GlobalLogger.Info("Server shutdown complete")
	return nil
}

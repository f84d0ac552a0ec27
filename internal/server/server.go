package server

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"surana-backend/internal/auth"
	"surana-backend/internal/chat"
	"surana-backend/internal/config"
	"surana-backend/internal/handler"
	"surana-backend/internal/imagegen"
	"surana-backend/internal/kvstore"
	"surana-backend/internal/moodboard"
	"surana-backend/internal/service"
)

// Vendors outbound clients. Nil fields are built from config.
type Vendors struct {
	Images imagegen.Generator
	Chat   chat.Completer
}

// Server Fiber server wrapper
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	logger *zap.Logger

	jwtManager         *auth.JWTManager
	healthHandler      *handler.HealthHandler
	authHandler        *handler.AuthHandler
	credentialHandler  *handler.CredentialHandler
	moodboardHandler   *handler.MoodboardHandler
	moodboardWSHandler *handler.MoodboardWSHandler
	chatHandler        *handler.ChatHandler
	designHandler      *handler.DesignHandler
	galleryHandler     *handler.GalleryHandler
	budgetHandler      *handler.BudgetHandler
}

// New builds the app and every handler on top of store
func New(cfg *config.Config, store kvstore.Store, vendors Vendors, health *handler.HealthHandler, log *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:       "Surana AI",
		ServerHeader:  "Fiber",
		StrictRouting: false,
		CaseSensitive: true,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
		// WebSocket upgrade breaks under prefork
		Prefork:               false,
		BodyLimit:             4 * 1024 * 1024,
		DisableStartupMessage: true,
	})

	if vendors.Images == nil {
		vendors.Images = imagegen.NewClient(imagegen.Config{
			BaseURL: cfg.Runware.BaseURL,
			Model:   cfg.Runware.Model,
			Timeout: cfg.Runware.Timeout,
		}, log)
	}
	if vendors.Chat == nil {
		vendors.Chat = chat.NewGeminiClient(chat.Config{
			BaseURL: cfg.Gemini.BaseURL,
			Model:   cfg.Gemini.Model,
			Timeout: cfg.Gemini.Timeout,
		}, log)
	}

	if health == nil {
		health = handler.NewHealthHandler()
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.SessionExpiry)

	creds := service.NewCredentialService(store, cfg.Runware.APIKey, cfg.Gemini.APIKey, log)
	boards := moodboard.NewRepository(store, log)
	gallery := service.NewGalleryService(store, log)
	assistant := service.NewAssistant(creds, vendors.Chat, vendors.Images, log)
	designs := service.NewDesignService(creds, vendors.Images, gallery, log)
	search := service.NewMoodboardSearch(creds, vendors.Images, log)
	budgets := service.NewBudgetService(store, log)
	accounts := service.NewAccountService(store, jwtManager, log)

	return &Server{
		app:                app,
		cfg:                cfg,
		logger:             log,
		jwtManager:         jwtManager,
		healthHandler:      health,
		authHandler:        handler.NewAuthHandler(accounts, cfg.Auth.SessionExpiry, cfg.Auth.SecureCookie, log),
		credentialHandler:  handler.NewCredentialHandler(creds, log),
		moodboardHandler:   handler.NewMoodboardHandler(boards, search, log),
		moodboardWSHandler: handler.NewMoodboardWSHandler(boards, cfg.Canvas.Width, cfg.Canvas.Height, cfg.WebSocket.MaxMessageSize, log),
		chatHandler:        handler.NewChatHandler(assistant, log),
		designHandler:      handler.NewDesignHandler(designs, log),
		galleryHandler:     handler.NewGalleryHandler(gallery, log),
		budgetHandler:      handler.NewBudgetHandler(budgets, log),
	}
}

// App underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// SetupMiddleware installs recover, access log and CORS
func (s *Server) SetupMiddleware() {
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: s.cfg.Log.Development,
	}))

	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORS.AllowOrigins,
		AllowHeaders:     s.cfg.CORS.AllowHeaders,
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: s.cfg.CORS.AllowOrigins != "*",
	}))
}

// SetupRoutes registers every endpoint
func (s *Server) SetupRoutes() {
	s.app.Get("/health", s.healthHandler.Check)
	s.app.Get("/health/live", s.healthHandler.Liveness)
	s.app.Get("/health/ready", s.healthHandler.Readiness)

	// vendor calls cost money; limit per client IP
	vendorLimiter := limiter.New(limiter.Config{
		Max:        s.cfg.Server.GenerateRateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, please try again later",
			})
		},
	})

	authGroup := s.app.Group("/auth")
	authGroup.Post("/login", s.authHandler.Login)
	authGroup.Post("/logout", auth.SessionMiddleware(s.jwtManager), s.authHandler.Logout)
	authGroup.Get("/me", auth.SessionMiddleware(s.jwtManager), s.authHandler.GetMe)

	api := s.app.Group("/api")

	credGroup := api.Group("/credentials")
	credGroup.Get("/:provider", s.credentialHandler.Status)
	credGroup.Put("/:provider", s.credentialHandler.Save)
	credGroup.Delete("/:provider", s.credentialHandler.Clear)

	boardGroup := api.Group("/moodboards")
	boardGroup.Get("/", s.moodboardHandler.List)
	boardGroup.Post("/", s.moodboardHandler.Create)
	boardGroup.Post("/search", vendorLimiter, s.moodboardHandler.Search)
	boardGroup.Get("/:index", s.moodboardHandler.Get)
	boardGroup.Delete("/:index", s.moodboardHandler.Delete)

	api.Get("/chat/greeting", s.chatHandler.Greeting)
	api.Post("/chat", vendorLimiter, s.chatHandler.Send)

	designGroup := api.Group("/designs")
	designGroup.Get("/options", s.designHandler.Options)
	designGroup.Post("/prompt", s.designHandler.Prompt)
	designGroup.Post("/generate", vendorLimiter, s.designHandler.Generate)
	designGroup.Post("/describe", vendorLimiter, s.designHandler.Describe)
	designGroup.Post("/save", s.designHandler.Save)

	api.Get("/gallery", s.galleryHandler.List)
	api.Delete("/gallery", s.galleryHandler.Delete)

	budgetGroup := api.Group("/budgets")
	budgetGroup.Get("/", s.budgetHandler.List)
	budgetGroup.Post("/", s.budgetHandler.Save)
	budgetGroup.Delete("/:id", s.budgetHandler.Delete)
	budgetGroup.Get("/:id/summary", s.budgetHandler.Summary)
	budgetGroup.Post("/:id/items", s.budgetHandler.AddItem)

	s.app.Get("/api/stats", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"activeCanvasSessions": s.moodboardWSHandler.ActiveSessions()})
	})

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	s.app.Get("/ws/moodboard",
		auth.OptionalSessionMiddleware(s.jwtManager),
		websocket.New(s.moodboardWSHandler.HandleWebSocket, websocket.Config{
			ReadBufferSize:  s.cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: s.cfg.WebSocket.WriteBufferSize,
		}),
	)
}

// Start listens until SIGINT/SIGTERM, then shuts down gracefully
func (s *Server) Start() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		s.logger.Info("shutting down server")
		if err := s.Shutdown(); err != nil {
			s.logger.Error("server shutdown error", zap.Error(err))
		}
	}()

	s.logger.Info("Surana AI backend starting",
		zap.String("addr", s.cfg.Server.Port),
		zap.String("websocket", "ws://localhost"+s.cfg.Server.Port+"/ws/moodboard"),
	)
	return s.app.Listen(s.cfg.Server.Port)
}

// Shutdown stops accepting connections and waits for in-flight ones
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(s.cfg.Server.ShutdownTimeout)
}

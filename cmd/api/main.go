package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/gauravasodariya/crux-finance/internal/adapters/primary/http"
	mw "github.com/gauravasodariya/crux-finance/internal/adapters/primary/http/middleware"
	"github.com/gauravasodariya/crux-finance/internal/adapters/primary/websocket"
	"github.com/gauravasodariya/crux-finance/internal/adapters/secondary/memory"
	"github.com/gauravasodariya/crux-finance/internal/adapters/secondary/postgres"
	redisAdapter "github.com/gauravasodariya/crux-finance/internal/adapters/secondary/redis"
	"github.com/gauravasodariya/crux-finance/internal/auth"
	"github.com/gauravasodariya/crux-finance/internal/config"
	"github.com/gauravasodariya/crux-finance/internal/core/ports"
	"github.com/gauravasodariya/crux-finance/internal/core/services"
	"github.com/gauravasodariya/crux-finance/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Initialize Database Pool (customer and agent directory)
	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 4. Initialize State Store (ticket persistence across restarts)
	var stateStore ports.StateStore
	var stateHealth httpAdapter.HealthChecker
	if cfg.Redis.Addr != "" {
		client, err := redisAdapter.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// Tickets survive in memory only; the service still runs.
			logger.Warn("redis unavailable, running without ticket persistence", "error", err)
		} else {
			store := redisAdapter.NewStateStore(client)
			stateStore = store
			stateHealth = store
			defer client.Close()
			logger.Info("state store connection established", "addr", cfg.Redis.Addr)
		}
	}

	// 5. Initialize Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 6. Initialize Rate Limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		authRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.AuthRPS,
			BurstSize:         cfg.RateLimit.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 7. Dependency Injection (Wiring the Hexagon)

	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Repositories (Secondary Adapters)
	directoryRepo := postgres.NewDirectoryRepository(pool)
	ticketRepo := memory.NewTicketRepository(stateStore, logger)
	ticketRepo.Hydrate(ctx)

	// Services (Core)
	scheduler := services.NewScheduler()
	notificationService := services.NewNotificationService(scheduler, hub, logger)
	queueService := services.NewQueueService(ticketRepo)
	ticketService := services.NewTicketService(ticketRepo, directoryRepo, notificationService, hub, logger)
	chatService := services.NewChatService(
		ticketRepo, directoryRepo, notificationService, hub, scheduler,
		cfg.Chat.BotReplyDelay, cfg.Chat.HandoffDelay, logger,
	)
	sessionService := services.NewSessionService(
		directoryRepo, stateStore, notificationService, chatService, tokenManager, logger,
	)

	// Handlers (Primary Adapters)
	sessionHandler := httpAdapter.NewSessionHandler(sessionService, errorHandler, logger)
	chatHandler := httpAdapter.NewChatHandler(chatService, errorHandler, logger)
	ticketHandler := httpAdapter.NewTicketHandler(ticketService, queueService, errorHandler, logger)
	directoryHandler := httpAdapter.NewDirectoryHandler(directoryRepo, errorHandler, logger)
	notificationHandler := httpAdapter.NewNotificationHandler(notificationService, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, tokenManager, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(directoryRepo, stateHealth, hub, cfg.App.Version)

	// 8. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	healthHandler.RegisterRoutes(r)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public login routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			if authRateLimiter != nil {
				r.Use(authRateLimiter.Middleware)
			}
			r.Route("/auth", sessionHandler.RegisterPublicRoutes)
		})

		// WebSocket route (Authentication is handled inside the handler)
		r.Get("/ws", wsHandler.ServeHTTP)

		// Protected REST routes
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Route("/session", sessionHandler.RegisterProtectedRoutes)
			r.Route("/chat", chatHandler.RegisterRoutes)
			r.Route("/tickets", ticketHandler.RegisterRoutes)
			r.Route("/directory", directoryHandler.RegisterRoutes)
			r.Route("/notifications", notificationHandler.RegisterRoutes)
		})
	})

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	// Pending bot replies and toast expiries die with the process.
	logger.Info("server shutdown complete")
}

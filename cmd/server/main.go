// Decoy - Conversational Scam Honeypot Server
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
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/decoynet/decoy/internal/api"
	"github.com/decoynet/decoy/internal/callback"
	"github.com/decoynet/decoy/internal/config"
	"github.com/decoynet/decoy/internal/domain"
	"github.com/decoynet/decoy/internal/engine"
	"github.com/decoynet/decoy/internal/feed"
	"github.com/decoynet/decoy/internal/llm"
	"github.com/decoynet/decoy/internal/middleware"
	"github.com/decoynet/decoy/internal/report"
	"github.com/decoynet/decoy/internal/risk"
	"github.com/decoynet/decoy/internal/session"
	"github.com/decoynet/decoy/internal/voice"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "session_backend", cfg.SessionBackend)

	// Initialize dependencies.
	archive, err := report.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize report archive", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := archive.Close(); closeErr != nil {
			slog.Error("Failed to close report archive", "error", closeErr)
		}
	}()

	if err := archive.Ping(context.Background()); err != nil {
		slog.Error("Report archive health check failed", "error", err)
		os.Exit(1)
	}

	engineCfg := engine.Config{
		TurnCap:         cfg.TurnCap,
		StagnationTurns: cfg.StagnationTurns,
		Checklist:       cfg.Checklist,
	}
	factory := engine.NewSessionFactory(engineCfg)

	var store session.Store
	if cfg.SessionBackend == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			slog.Error("Redis health check failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		store = session.NewRedisStore(client, factory, cfg.Retention)
		slog.Info("Session store ready", "backend", "redis", "addr", cfg.RedisAddr)
	} else {
		store = session.NewMemoryStore(factory)
		slog.Info("Session store ready", "backend", "memory")
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close session store", "error", closeErr)
		}
	}()

	locks := session.NewLocks()
	scorer := risk.NewScorer(cfg.RiskBands)

	var gen llm.Generator = llm.Disabled{}
	if cfg.LLM.APIKey != "" {
		g, err := llm.NewOpenAIGenerator(llm.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
		})
		if err != nil {
			slog.Error("Failed to initialize generation backend", "error", err)
			os.Exit(1)
		}
		gen = g
		slog.Info("Generation backend ready", "model", cfg.LLM.Model)
	} else {
		slog.Warn("LLM_API_KEY not set, replies degrade to persona stalls")
	}

	var notifier callback.Notifier = callback.NopNotifier{}
	if cfg.CallbackURL != "" {
		notifier = callback.NewHTTPNotifier(cfg.CallbackURL)
		slog.Info("Resolution callback enabled", "url", cfg.CallbackURL)
	}

	hub := feed.NewHub()
	eng := engine.New(store, locks, scorer, gen, notifier, archive, hub, engineCfg)

	handler := api.NewHandler(eng, archive, voice.NewDetector())
	feedHandler := feed.NewHandler(hub, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	// Public routes.
	r.Get("/", handler.Root)
	r.Get("/health", handler.Health)

	// Authenticated routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKey(cfg.APIKey))
		r.Post("/honeypot", handler.Honeypot)
		r.Post("/voice/detect", handler.VoiceDetect)
		r.Get("/reports", handler.ListReports)
		r.Get("/reports/{sessionID}", handler.GetReport)
	})

	// WebSocket endpoint.
	r.Get("/ws/feed", feedHandler.ServeHTTP)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start idle-session sweeper.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.StartSweeper(ctx, store, locks, session.SweeperConfig{
		Interval:    cfg.SweepInterval,
		IdleTimeout: cfg.IdleTimeout,
		Retention:   cfg.Retention,
	}, func(s *domain.Session) {
		hub.Broadcast(feed.Event{
			Type:      feed.EventExpired,
			SessionID: s.ID,
			RiskTier:  s.RiskTier,
			Turn:      s.TurnCount,
			Detail:    "idle timeout",
			At:        time.Now().UTC(),
		})
	})

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

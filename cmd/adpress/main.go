// Package main is the entry point for the adpress API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"adpress/internal/cache"
	"adpress/internal/config"
	"adpress/internal/content"
	"adpress/internal/database"
	"adpress/internal/handlers"
	"adpress/internal/metrics"
	"adpress/internal/router"
	"adpress/internal/session"
	"adpress/internal/store"
)

func main() {
	// Environment file first so LOG_LEVEL and friends can come from it.
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"log_level", level.String(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if an account already exists).
	if cfg.IsDev() {
		if err := database.Seed(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the response cache and token revocation. Outside
	// production the API keeps running without it.
	var valkeyClient *redis.Client
	valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		if !cfg.IsDev() {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		slog.Warn("valkey unavailable, response cache and logout disabled", "error", err)
		valkeyClient = nil
	} else {
		defer valkeyClient.Close()
	}

	// Initialize data stores.
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	adStore := store.NewAdStore(db)
	userStore := store.NewUserStore(db)

	// Services on top of the stores.
	posts := content.NewPosts(postStore, categoryStore)
	categories := content.NewCategories(categoryStore)
	ads := content.NewAds(adStore)
	tracker := metrics.NewTracker(adStore)
	sessions := session.NewManager(cfg.JWTSecret, cfg.JWTTTL, valkeyClient)

	// Response cache for anonymous public reads. Left as untyped nil
	// interfaces when Valkey is down so the router skips it.
	deps := router.Deps{
		Verifier:       sessions,
		AllowedOrigins: []string{cfg.FrontendURL},
		Limiters:       router.NewLimiters(),
		Public:         handlers.NewPublic(db, posts, categories, ads),
		Tracking:       handlers.NewTracking(tracker),
		Auth:           handlers.NewAuth(userStore, sessions, cfg.AllowRegister),
	}
	defer deps.Limiters.Stop()

	if valkeyClient != nil {
		responses := cache.NewResponseCache(valkeyClient, cfg.CacheTTL)
		deps.Cache = responses
		deps.Admin = handlers.NewAdmin(posts, categories, ads, tracker, responses)
	} else {
		deps.Admin = handlers.NewAdmin(posts, categories, ads, tracker, nil)
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(deps)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

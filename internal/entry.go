// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"beyondnp-backend/internal/auth"
	"beyondnp-backend/internal/database"
	"beyondnp-backend/internal/handlers"
	"beyondnp-backend/internal/middleware"
	"beyondnp-backend/internal/repository"
	"beyondnp-backend/internal/service"
)

var errConfigRequired = errors.New("config is required")

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(cfg)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("database", cfg.Mongo.Database),
		slog.Bool("transactions", cfg.Mongo.Transactions),
		slog.Bool("resend", cfg.Mail.ResendAPIKey != ""),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeMongo(db, logger)

	tokens := auth.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	users := service.NewUserService(st, tokens, app.mailer, service.UserOptions{
		CodeTTL:     cfg.Auth.CodeTTL,
		MailTimeout: cfg.Mail.SendTimeout,
	})
	// Let in-flight verification emails finish before disconnecting.
	defer users.Wait()

	g, gCtx := errgroup.WithContext(ctx)

	limiter := middleware.NewIPRateLimiter(gCtx, cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, logger)

	apiRouter := handlers.NewRouter(handlers.Services{
		Users:        users,
		Collections:  service.NewCollectionService(st),
		Notes:        service.NewNoteService(st),
		Documents:    service.NewDocumentService(st),
		Universities: service.NewUniversityService(st),
		Dashboard:    service.NewDashboardService(st),
		Tokens:       tokens,
	}, limiter.Handler)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newRootRouter(cfg, apiRouter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.HTTP.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// newRootRouter wraps the API with the global middleware and health check.
func newRootRouter(cfg *Config, api http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"beyondnp-backend"}`))
	})

	r.Mount("/api", api)
	return r
}

func newLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// openStores connects to MongoDB, ensures the indexes and returns the
// repositories bundled for the services.
func openStores(ctx context.Context, cfg *Config, logger *slog.Logger) (*database.Mongo, service.Stores, error) {
	db, err := database.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.ConnectTimeout)
	if err != nil {
		return nil, service.Stores{}, fmt.Errorf("init mongo: %w", err)
	}

	users := repository.NewUserRepo(db)
	collections := repository.NewCollectionRepo(db)
	notes := repository.NewNoteRepo(db)
	documents := repository.NewDocumentRepo(db)
	universities := repository.NewUniversityRepo(db)

	indexCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	defer cancel()

	for name, repo := range map[string]interface{ EnsureIndexes(context.Context) error }{
		"users":        users,
		"collections":  collections,
		"notes":        notes,
		"documents":    documents,
		"universities": universities,
	} {
		if err := repo.EnsureIndexes(indexCtx); err != nil {
			logger.Warn("failed to create indexes",
				slog.String("collection", name),
				slog.String("error", err.Error()))
		}
	}

	return db, service.Stores{
		Users:        users,
		Collections:  collections,
		Notes:        notes,
		Documents:    documents,
		Universities: universities,
		Tx:           database.NewTransactor(db.Client, cfg.Mongo.Transactions),
	}, nil
}

func closeMongo(db *database.Mongo, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Close(ctx); err != nil {
		logger.Error("MongoDB disconnect error", slog.String("error", err.Error()))
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/favorites"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/ledger"
	applog "finance-tracker/internal/log"
	"finance-tracker/internal/models"
	"finance-tracker/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, _ := applog.ParseLevel(cfg.Log.Level)
	logCfg := applog.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.Log.Format
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	ctx := context.Background()

	db, err := storage.NewDB(cfg.DB.URL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	logger.WithComponent(applog.ComponentStorage).Info("Database ready", applog.FieldDialect, db.Dialect())

	var sessionStore auth.SessionStore = db
	if cfg.Session.Backend == "redis" {
		rdb, err := auth.NewRedisClient(ctx, cfg.Session.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		sessionStore = auth.NewRedisStore(rdb)
	}
	logger.Info("Session backend ready", "backend", cfg.Session.Backend)

	credentials := auth.NewCredentials(db)
	sessions := auth.NewSessions(sessionStore, db, cfg.Session.Duration)

	if err := seedAdmin(ctx, credentials, cfg.Admin, logger); err != nil {
		return err
	}

	if n, err := sessions.Sweep(ctx); err != nil {
		logger.Warn("Failed to clean expired sessions", applog.FieldError, err)
	} else if n > 0 {
		logger.Info("Cleaned expired sessions", "count", n)
	}

	h := handlers.NewHandlers(handlers.Services{
		Credentials: credentials,
		Sessions:    sessions,
		Ledger:      ledger.New(db),
		Favorites:   favorites.New(db),
		DB:          db,
	}, cfg.Web.TemplateDir, cfg.Session.SecureCookie)

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        applog.Middleware(logger)(setupRouter(h, cfg.Web.StaticDir)),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: 1 << 16,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.HTTP.Port, applog.FieldOperation, applog.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case sig := <-sigCh:
		logger.Info("Shutdown signal received", "signal", sig.String(), applog.FieldOperation, applog.OpShutdown)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped gracefully")
	return nil
}

// seedAdmin creates the configured admin user unless it already exists.
func seedAdmin(ctx context.Context, credentials *auth.Credentials, admin config.AdminConfig, logger *applog.Logger) error {
	if admin.User == "" {
		return nil
	}
	user, err := credentials.Register(ctx, admin.User, admin.Password)
	switch {
	case errors.Is(err, models.ErrDuplicateUsername):
		return nil
	case err != nil:
		return fmt.Errorf("seed admin user: %w", err)
	}
	logger.Info("Created admin user", applog.FieldUsername, user.Username, applog.FieldUserID, user.ID)
	return nil
}

func setupRouter(h *handlers.Handlers, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	// Public routes
	mux.HandleFunc("GET /register", h.RegisterForm)
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /logout", h.Logout)
	mux.HandleFunc("GET /healthz", h.Health)

	// Protected routes
	protected := func(fn http.HandlerFunc) http.Handler {
		return h.AuthMiddleware(fn)
	}
	mux.Handle("GET /{$}", protected(h.Index))
	mux.Handle("POST /add", protected(h.AddTransaction))
	mux.Handle("POST /edit/{id}", protected(h.EditTransaction))
	mux.Handle("POST /delete/{id}", protected(h.DeleteTransaction))
	mux.Handle("POST /clear_all", protected(h.ClearAll))
	mux.Handle("GET /favorites", protected(h.ListFavorites))
	mux.Handle("POST /favorites/add", protected(h.AddFavorite))
	mux.Handle("POST /favorites/delete/{id}", protected(h.DeleteFavorite))

	return mux
}

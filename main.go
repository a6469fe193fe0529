package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/msomdec/todolist/internal/config"
	"github.com/msomdec/todolist/internal/domain"
	"github.com/msomdec/todolist/internal/handler"
	"github.com/msomdec/todolist/internal/repository/memory"
	"github.com/msomdec/todolist/internal/repository/sqlite"
	"github.com/msomdec/todolist/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := openDatabase(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("store ready", "driver", cfg.StoreDriver)

	accounts := service.NewAccountService(db.Users(), newIdentityResolver(cfg, db.Users()), newPasswordHasher(cfg))
	tasks := service.NewTaskService(db.Todos())

	var limiter *service.RateLimiter
	if cfg.RateLimitEnabled() {
		limiter = service.NewRateLimiter(cfg.AuthRateLimitRPS, float64(cfg.AuthRateLimitBurst))
		defer limiter.Close()
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, accounts, tasks, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Middleware(mux, logger, cfg.AllowedOrigins()),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"addr", srv.Addr,
			"token_scheme", cfg.TokenScheme,
			"password_scheme", cfg.PasswordScheme,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func openDatabase(ctx context.Context, cfg *config.Config) (domain.Database, error) {
	var db domain.Database
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		sqlDB, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		db = sqlDB
	case config.DriverMemory:
		db = memory.New()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func newIdentityResolver(cfg *config.Config, users domain.UserRepository) service.IdentityResolver {
	if cfg.TokenScheme == config.TokenJWT {
		return service.NewJWTResolver(users, cfg.JWTSecret)
	}
	slog.Warn("using unsigned prefix tokens; set TOKEN_SCHEME=jwt to issue signed tokens")
	return service.NewPrefixResolver(users)
}

func newPasswordHasher(cfg *config.Config) service.PasswordHasher {
	if cfg.PasswordScheme == config.PasswordBcrypt {
		return service.BcryptPasswords{Cost: cfg.BcryptCost}
	}
	slog.Warn("storing plaintext passwords; set PASSWORD_SCHEME=bcrypt to hash them")
	return service.PlainPasswords{}
}

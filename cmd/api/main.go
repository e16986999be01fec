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

	"github.com/joho/godotenv"

	"github.com/passgen/passgen-go/internal/config"
	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/generator"
	"github.com/passgen/passgen-go/internal/handler"
	"github.com/passgen/passgen-go/internal/middleware"
	"github.com/passgen/passgen-go/internal/repository"
	"github.com/passgen/passgen-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := generator.SourceByName(cfg.GeneratorSource, cfg.GeneratorSeed)
	if err != nil {
		slog.Error("invalid generator source", "error", err)
		os.Exit(1)
	}
	if cfg.GeneratorSource == generator.SourceSeeded {
		slog.Warn("seeded generator source in use, output is reproducible", "seed", cfg.GeneratorSeed)
	}

	genService := service.NewGeneratorService(generator.New(src), service.GeneratorSettings{
		DefaultLength:  cfg.DefaultLength,
		MaxLength:      cfg.MaxLength,
		DefaultSymbols: cfg.DefaultIncludeSymbols,
	})

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	routes := handler.Routes{
		Generator: handler.NewGeneratorHandler(genService),
		Limiter:   limiter,
	}

	// Auth and profile routes need the database.
	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("database connection failed, auth and profile routes disabled", "error", err)
	} else {
		defer db.Close()

		if err := repository.EnsureSchema(ctx, db); err != nil {
			slog.Error("schema setup failed", "error", err)
			os.Exit(1)
		}

		tokens, err := crypto.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
		if err != nil {
			slog.Error("token manager setup failed", "error", err)
			os.Exit(1)
		}

		authService := service.NewAuthService(
			repository.NewUserRepository(db),
			crypto.NewHasher(crypto.DefaultHashParams()),
			tokens,
		)
		profileService := service.NewProfileService(repository.NewProfileRepository(db), genService)

		routes.Auth = handler.NewAuthHandler(authService)
		routes.Profiles = handler.NewProfileHandler(profileService)
		routes.Tokens = tokens
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(routes),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "source", cfg.GeneratorSource)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/evan2110/web-application/config"
	"github.com/evan2110/web-application/db"
	"github.com/evan2110/web-application/internal/auth/handler"
	repo "github.com/evan2110/web-application/internal/auth/repository/postgres"
	"github.com/evan2110/web-application/internal/auth/service"
	"github.com/evan2110/web-application/internal/mailer"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(ctx, cfg.DBURL); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	repository := repo.NewPostgresRepository(dbPool)

	blacklistService := service.NewBlacklistService(repository, cfg.BlacklistDefaultExpiryMin, logger)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessExpiryMin, blacklistService)

	smtpMailer, err := mailer.NewSMTPMailer(cfg, logger)
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}

	userService := service.NewUserService(repository, repository, repository,
		tokenService, blacklistService, smtpMailer, cfg, logger)

	authHandler := handler.NewAuthHandler(userService, cfg, logger)
	usersHandler := handler.NewUsersHandler(repository, logger)

	sweeper := service.NewBlacklistSweeper(
		time.Duration(cfg.BlacklistSweepIntervalMin)*time.Minute,
		func() service.Blacklister {
			// Fresh service per tick; connections come from the pool on demand.
			return service.NewBlacklistService(repo.NewPostgresRepository(dbPool), cfg.BlacklistDefaultExpiryMin, logger)
		},
		logger,
	)
	go sweeper.Run(ctx)

	app := fiber.New()
	app.Use(handler.TokenValidation(tokenService, logger))
	handler.RegisterRoutes(app, authHandler, usersHandler)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

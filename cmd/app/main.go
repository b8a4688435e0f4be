package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fightclub/internal/config"
	"fightclub/internal/db"
	"fightclub/internal/email"
	"fightclub/internal/logger"
	"fightclub/internal/server"
	"fightclub/internal/subscription"

	"github.com/redis/go-redis/v9"
)

// @title        Fight Club API
// @version      1.0
// @description  Membership entitlement and scheduling engine for a combat sports club.
// @host         localhost:8080
// @BasePath     /api
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	logger.Info("Starting Fight Club engine", "timezone", cfg.Location.String())

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mailer subscription.Mailer
	if cfg.EmailEnabled {
		emailService := email.New(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), newSender(cfg))
		defer emailService.Close()
		go emailService.Start(ctx)
		mailer = emailService
		logger.Info("Email service initialized", "redis", cfg.RedisAddr)
	} else {
		logger.Info("Email notifications disabled")
	}

	srv := server.New(database, cfg, mailer)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	cancel()

	logger.Info("Server stopped")
}

// newSender prefers Resend when an API key is configured.
func newSender(cfg *config.Config) email.Sender {
	if cfg.ResendAPIKey != "" {
		return email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.EmailFromName)
	}
	return &email.SMTPSender{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
	}
}

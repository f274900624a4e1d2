// Package main implements the entry point for the contact API worker,
// which consumes queued email jobs and delivers contact form
// notifications over SMTP.
package main

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/fernwell/contact-api/internal/config"
	"github.com/fernwell/contact-api/internal/email"
	"github.com/fernwell/contact-api/internal/platform/logger"
	"github.com/fernwell/contact-api/internal/queue"
)

func main() {
	cfg, appLogger, err := initializeWorker()
	if err != nil {
		log.Fatalf("Failed to initialize worker: %v", err)
	}

	sender := email.NewSMTPSender(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.UseTLS,
		appLogger,
	)

	worker := queue.NewWorker(asynq.RedisClientOpt{
		Addr:     cfg.Broker.Addr,
		Password: cfg.Broker.Password,
		DB:       cfg.Broker.DB,
	}, sender, cfg.SMTP.FromAddress, queue.WorkerOptions{}, appLogger)

	// Run blocks until SIGINT or SIGTERM, then drains the in-flight job.
	if err := worker.Run(); err != nil {
		appLogger.Error("Worker exited with error", "error", err)
		log.Fatalf("Worker error: %v", err)
	}

	appLogger.Info("Worker shutdown completed")
}

// initializeWorker loads configuration and sets up structured logging.
func initializeWorker() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Worker configuration loaded",
		"log_level", cfg.Server.LogLevel,
		"broker_addr", cfg.Broker.Addr,
		"smtp_host", cfg.SMTP.Host)

	return cfg, appLogger, nil
}

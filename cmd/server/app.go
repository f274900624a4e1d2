package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fernwell/contact-api/internal/auth"
	"github.com/fernwell/contact-api/internal/config"
	"github.com/fernwell/contact-api/internal/platform/postgres"
	"github.com/fernwell/contact-api/internal/queue"
	"github.com/fernwell/contact-api/internal/service"
	"github.com/fernwell/contact-api/internal/store"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// redis carries the health check connection to the broker; the queue
	// client maintains its own pool through asynq.
	redis *redis.Client

	messageStore   store.MessageStore
	queueClient    *queue.Client
	jwtService     auth.JWTService
	contactService service.ContactService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.jwtService = auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime)
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetime)

	app.messageStore = postgres.NewPostgresMessageStore(db, logger)

	app.queueClient = queue.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Broker.Addr,
		Password: cfg.Broker.Password,
		DB:       cfg.Broker.DB,
	}, queue.ClientOptions{}, logger)

	app.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Broker.Addr,
		Password: cfg.Broker.Password,
		DB:       cfg.Broker.DB,
	})
	if err := app.redis.Ping(ctx).Err(); err != nil {
		logger.Warn("Broker unreachable at startup; submissions will fail until it recovers",
			"error", err,
			"broker_addr", cfg.Broker.Addr)
	}

	messageRepoAdapter := service.NewMessageRepositoryAdapter(app.messageStore, app.db)

	contactService, err := service.NewContactService(
		messageRepoAdapter,
		app.queueClient,
		cfg.SMTP.FromAddress,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact service: %w", err)
	}
	app.contactService = contactService

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.queueClient != nil {
		if err := app.queueClient.Close(); err != nil {
			app.logger.Error("Error closing queue client", "error", err)
		}
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

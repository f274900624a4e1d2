package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fernwell/contact-api/internal/domain"
	"github.com/fernwell/contact-api/internal/platform/logger"
	"github.com/fernwell/contact-api/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const pgUniqueViolationCode = "23505"

// defaultListLimit bounds admin listing pages when the caller passes no limit.
const defaultListLimit = 50

// PostgresMessageStore implements the store.MessageStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMessageStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMessageStore creates a new PostgreSQL implementation of the
// MessageStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresMessageStore(db store.DBTX, logger *slog.Logger) *PostgresMessageStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMessageStore{
		db:     db,
		logger: logger.With(slog.String("component", "message_store")),
	}
}

// Ensure PostgresMessageStore implements store.MessageStore interface
var _ store.MessageStore = (*PostgresMessageStore)(nil)

// Create implements store.MessageStore.Create
// It saves a new message to the database, handling domain validation.
func (s *PostgresMessageStore) Create(ctx context.Context, message *domain.Message) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := message.Validate(); err != nil {
		log.Warn("message validation failed during create",
			slog.String("error", err.Error()),
			slog.String("message_id", message.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO messages (id, name, email, subject, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		message.ID,
		message.Name,
		message.Email,
		message.Subject,
		message.Body,
		message.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			log.Warn("duplicate message ID during creation",
				slog.String("error", err.Error()),
				slog.String("message_id", message.ID.String()))
			return fmt.Errorf("%w: message with ID %s already exists",
				store.ErrInvalidEntity, message.ID)
		}

		log.Error("failed to create message",
			slog.String("error", err.Error()),
			slog.String("message_id", message.ID.String()))
		return err
	}

	log.Info("message created successfully",
		slog.String("message_id", message.ID.String()))
	return nil
}

// GetByID implements store.MessageStore.GetByID
// Returns store.ErrMessageNotFound if the message does not exist.
func (s *PostgresMessageStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving message by ID", slog.String("message_id", id.String()))

	query := `
		SELECT id, name, email, subject, body, created_at
		FROM messages
		WHERE id = $1
	`

	var message domain.Message
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&message.ID,
		&message.Name,
		&message.Email,
		&message.Subject,
		&message.Body,
		&message.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("message not found", slog.String("message_id", id.String()))
			return nil, store.ErrMessageNotFound
		}
		log.Error("failed to get message by ID",
			slog.String("error", err.Error()),
			slog.String("message_id", id.String()))
		return nil, err
	}

	return &message, nil
}

// List implements store.MessageStore.List
// Messages are returned newest first, matching the admin listing order.
func (s *PostgresMessageStore) List(ctx context.Context, limit, offset int) ([]*domain.Message, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, name, email, subject, body, created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		log.Error("failed to list messages",
			slog.String("error", err.Error()),
			slog.Int("limit", limit),
			slog.Int("offset", offset))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var messages []*domain.Message
	for rows.Next() {
		var message domain.Message
		err := rows.Scan(
			&message.ID,
			&message.Name,
			&message.Email,
			&message.Subject,
			&message.Body,
			&message.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan message row", slog.String("error", err.Error()))
			return nil, err
		}
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating message rows", slog.String("error", err.Error()))
		return nil, err
	}

	return messages, nil
}

// Count implements store.MessageStore.Count
func (s *PostgresMessageStore) Count(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	if err != nil {
		log.Error("failed to count messages", slog.String("error", err.Error()))
		return 0, err
	}

	return count, nil
}

// WithTx implements store.MessageStore.WithTx
// It returns a new store instance backed by the given transaction.
func (s *PostgresMessageStore) WithTx(tx *sql.Tx) store.MessageStore {
	return &PostgresMessageStore{
		db:     tx,
		logger: s.logger,
	}
}

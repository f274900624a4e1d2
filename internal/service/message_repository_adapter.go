package service

import (
	"context"
	"database/sql"

	"github.com/fernwell/contact-api/internal/domain"
	"github.com/fernwell/contact-api/internal/store"
	"github.com/google/uuid"
)

// MessageRepositoryAdapter adapts a store.MessageStore to the service
// layer's MessageRepository interface, carrying the *sql.DB handle the
// transaction helper needs.
type MessageRepositoryAdapter struct {
	messageStore store.MessageStore
	db           *sql.DB
}

// NewMessageRepositoryAdapter creates a new adapter around the given store
// and database connection.
func NewMessageRepositoryAdapter(messageStore store.MessageStore, db *sql.DB) *MessageRepositoryAdapter {
	return &MessageRepositoryAdapter{
		messageStore: messageStore,
		db:           db,
	}
}

// Ensure MessageRepositoryAdapter implements MessageRepository
var _ MessageRepository = (*MessageRepositoryAdapter)(nil)

// Create implements MessageRepository.Create
func (a *MessageRepositoryAdapter) Create(ctx context.Context, message *domain.Message) error {
	return a.messageStore.Create(ctx, message)
}

// GetByID implements MessageRepository.GetByID
func (a *MessageRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	return a.messageStore.GetByID(ctx, id)
}

// List implements MessageRepository.List
func (a *MessageRepositoryAdapter) List(ctx context.Context, limit, offset int) ([]*domain.Message, error) {
	return a.messageStore.List(ctx, limit, offset)
}

// Count implements MessageRepository.Count
func (a *MessageRepositoryAdapter) Count(ctx context.Context) (int64, error) {
	return a.messageStore.Count(ctx)
}

// WithTx implements MessageRepository.WithTx
func (a *MessageRepositoryAdapter) WithTx(tx *sql.Tx) MessageRepository {
	return &MessageRepositoryAdapter{
		messageStore: a.messageStore.WithTx(tx),
		db:           a.db,
	}
}

// DB implements MessageRepository.DB
func (a *MessageRepositoryAdapter) DB() *sql.DB {
	return a.db
}

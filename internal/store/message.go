package store

import (
	"context"
	"database/sql"

	"github.com/fernwell/contact-api/internal/domain"
	"github.com/google/uuid"
)

// MessageStore defines the interface for contact message persistence.
// Messages are write-once: there are no update or delete operations.
type MessageStore interface {
	// Create saves a new message to the store.
	// Returns validation errors from the domain Message if data is invalid.
	Create(ctx context.Context, message *domain.Message) error

	// GetByID retrieves a message by its unique ID.
	// Returns ErrMessageNotFound if the message does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)

	// List retrieves messages ordered newest first.
	// limit bounds the page size; offset skips past earlier pages.
	List(ctx context.Context, limit, offset int) ([]*domain.Message, error)

	// Count returns the total number of stored messages.
	Count(ctx context.Context) (int64, error)

	// WithTx returns a new MessageStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) MessageStore
}

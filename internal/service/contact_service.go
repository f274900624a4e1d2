package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fernwell/contact-api/internal/domain"
	"github.com/fernwell/contact-api/internal/email"
	"github.com/fernwell/contact-api/internal/queue"
	"github.com/fernwell/contact-api/internal/store"
	"github.com/google/uuid"
)

// MessageRepository defines the repository interface for the service layer.
// It is aligned with store.MessageStore plus access to the underlying
// connection for transaction management.
type MessageRepository interface {
	// Create saves a new message to the store
	Create(ctx context.Context, message *domain.Message) error

	// GetByID retrieves a message by its unique ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)

	// List retrieves messages ordered newest first
	List(ctx context.Context, limit, offset int) ([]*domain.Message, error)

	// Count returns the total number of stored messages
	Count(ctx context.Context) (int64, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) MessageRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// SubmitMessageInput carries the validated form fields of a submission.
type SubmitMessageInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactService provides contact form operations.
type ContactService interface {
	// SubmitMessage persists a contact message and enqueues exactly one
	// email job derived from it, in that order. It returns once the job
	// has been accepted by the broker, without waiting on its execution.
	SubmitMessage(ctx context.Context, input SubmitMessageInput) (*domain.Message, error)

	// GetMessage retrieves a message by its ID.
	GetMessage(ctx context.Context, id uuid.UUID) (*domain.Message, error)

	// ListMessages returns stored messages newest first, for the admin view.
	ListMessages(ctx context.Context, limit, offset int) ([]*domain.Message, error)

	// CountMessages returns the total number of stored messages.
	CountMessages(ctx context.Context) (int64, error)
}

// Common sentinel errors for ContactService
var (
	// ErrMessageNotFound indicates that the message does not exist
	ErrMessageNotFound = errors.New("message not found")
)

// ContactServiceError wraps errors from the contact service with context.
type ContactServiceError struct {
	// Operation is the operation that failed (e.g., "submit_message")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ContactServiceError.
func (e *ContactServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("contact service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("contact service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ContactServiceError) Unwrap() error {
	return e.Err
}

// contactServiceImpl implements the ContactService interface
type contactServiceImpl struct {
	messageRepo MessageRepository
	enqueuer    queue.Enqueuer
	notifyTo    string
	logger      *slog.Logger
}

// NewContactService creates a new ContactService. notifyTo is the address
// that receives the notification email for every submission (the configured
// default sender address, matching the original walkthrough's behavior).
// It returns an error if any of the required dependencies are nil.
func NewContactService(
	messageRepo MessageRepository,
	enqueuer queue.Enqueuer,
	notifyTo string,
	logger *slog.Logger,
) (ContactService, error) {
	if messageRepo == nil {
		return nil, &ContactServiceError{
			Operation: "create_service",
			Message:   "messageRepo cannot be nil",
		}
	}
	if enqueuer == nil {
		return nil, &ContactServiceError{
			Operation: "create_service",
			Message:   "enqueuer cannot be nil",
		}
	}
	if notifyTo == "" {
		return nil, &ContactServiceError{
			Operation: "create_service",
			Message:   "notifyTo cannot be empty",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &contactServiceImpl{
		messageRepo: messageRepo,
		enqueuer:    enqueuer,
		notifyTo:    notifyTo,
		logger:      logger.With("component", "contact_service"),
	}, nil
}

// SubmitMessage implements ContactService.SubmitMessage.
//
// Ordering is persist first, enqueue second: if persistence fails no job is
// enqueued; if enqueue fails the persisted row remains. There is no
// compensating rollback on enqueue failure; that inconsistency is an
// accepted gap of this system, not something this method papers over.
func (s *contactServiceImpl) SubmitMessage(
	ctx context.Context,
	input SubmitMessageInput,
) (*domain.Message, error) {
	// 1. Build and validate the domain message.
	message, err := domain.NewMessage(input.Name, input.Email, input.Subject, input.Message)
	if err != nil {
		s.logger.Warn("rejected invalid contact submission",
			"error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	// 2. Persist the message inside a transaction.
	err = store.RunInTransaction(ctx, s.messageRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.messageRepo.WithTx(tx)
		if err := txRepo.Create(ctx, message); err != nil {
			s.logger.Error("failed to persist contact message",
				"error", err,
				"message_id", message.ID)
			return &ContactServiceError{
				Operation: "submit_message",
				Message:   "failed to save message to database",
				Err:       err,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contact message persisted",
		"message_id", message.ID)

	// 3. Compose and enqueue the notification job.
	subject, body := email.ComposeContactNotification(message)
	jobID, err := s.enqueuer.Enqueue(ctx, queue.EmailJob{
		Recipient: s.notifyTo,
		Subject:   subject,
		Body:      body,
	})
	if err != nil {
		s.logger.Error("failed to enqueue notification job; message row kept",
			"error", err,
			"message_id", message.ID)
		return nil, &ContactServiceError{
			Operation: "submit_message",
			Message:   "failed to enqueue notification job",
			Err:       err,
		}
	}

	s.logger.Info("notification job enqueued",
		"message_id", message.ID,
		"job_id", jobID)

	return message, nil
}

// GetMessage implements ContactService.GetMessage
func (s *contactServiceImpl) GetMessage(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrMessageNotFound) {
			return nil, ErrMessageNotFound
		}
		s.logger.Error("failed to retrieve message",
			"error", err,
			"message_id", id)
		return nil, &ContactServiceError{
			Operation: "get_message",
			Message:   "failed to retrieve message",
			Err:       err,
		}
	}

	return message, nil
}

// ListMessages implements ContactService.ListMessages
func (s *contactServiceImpl) ListMessages(ctx context.Context, limit, offset int) ([]*domain.Message, error) {
	messages, err := s.messageRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list messages",
			"error", err,
			"limit", limit,
			"offset", offset)
		return nil, &ContactServiceError{
			Operation: "list_messages",
			Message:   "failed to list messages",
			Err:       err,
		}
	}

	return messages, nil
}

// CountMessages implements ContactService.CountMessages
func (s *contactServiceImpl) CountMessages(ctx context.Context) (int64, error) {
	count, err := s.messageRepo.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count messages", "error", err)
		return 0, &ContactServiceError{
			Operation: "count_messages",
			Message:   "failed to count messages",
			Err:       err,
		}
	}

	return count, nil
}
